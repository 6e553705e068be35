package lead

import (
	"strings"
	"time"
)

// StaleAfter is how long a lead may sit since creation before it needs attention.
const StaleAfter = 7 * 24 * time.Hour

// SetStatus returns a copy of l with the new status. Any enum member is
// accepted, including moves out of converted or lost.
func SetStatus(l Lead, s Status) (Lead, error) {
	status, err := ParseStatus(string(s))
	if err != nil {
		return l, err
	}
	l.Status = status
	return l, nil
}

// IsStale reports whether the lead was created more than StaleAfter before
// now and has not converted. Age is measured from creation, not last contact.
func IsStale(l Lead, now time.Time) bool {
	return now.Sub(l.CreatedAt) > StaleAfter && l.Status != StatusConverted
}

// NextStatuses returns the transitions a pipeline view offers: the next step
// plus lost. Terminal statuses offer nothing.
func NextStatuses(s Status) []Status {
	switch s {
	case StatusNew:
		return []Status{StatusContacted, StatusLost}
	case StatusContacted:
		return []Status{StatusQualified, StatusLost}
	case StatusQualified:
		return []Status{StatusProposalSent, StatusLost}
	case StatusProposalSent:
		return []Status{StatusConverted, StatusLost}
	case StatusConverted, StatusLost:
		return nil
	default:
		return nil
	}
}

// Filter selects leads. Empty Status matches every status.
type Filter struct {
	Status    Status
	Query     string
	StaleOnly bool
}

// ParseFilterStatus accepts a status or "all"/"" for no status predicate.
func ParseFilterStatus(raw string) (Status, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	return ParseStatus(raw)
}

// FilterLeads returns the leads matching every active predicate, in input order.
func FilterLeads(leads []Lead, f Filter, now time.Time) []Lead {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		if f.StaleOnly && !IsStale(l, now) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesQuery(l Lead, query string) bool {
	for _, field := range []string{l.Name, l.Email, l.Phone} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
