package lead

import (
	"time"

	"github.com/aceweb/agencyops/internal/domain/validation"
)

// Status is a position in the sales pipeline
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusQualified    Status = "qualified"
	StatusProposalSent Status = "proposal_sent"
	StatusConverted    Status = "converted"
	StatusLost         Status = "lost"
)

// Pipeline lists statuses in display order.
var Pipeline = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposalSent,
	StatusConverted,
	StatusLost,
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposalSent, StatusConverted, StatusLost:
		return s, nil
	default:
		return "", validation.New("status", "unrecognized lead status "+raw)
	}
}

// Lead is a prospective business contact
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
