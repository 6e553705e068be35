// Package metrics computes the aggregates every view renders from records
// already fetched from the store. Functions never fail: negative amounts are
// treated as zero and empty input yields zero values.
package metrics

import (
	"sort"
	"time"

	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/domain/lead"
	"github.com/aceweb/agencyops/internal/domain/project"
	"github.com/aceweb/agencyops/internal/domain/task"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ClientRollup summarizes one client's portfolio.
type ClientRollup struct {
	TotalInvested  decimal.Decimal `json:"total_invested"`
	ActiveProjects int             `json:"active_projects"`
	PendingTasks   int             `json:"pending_tasks"`
}

// ClientStats sums value over every project, counts in_progress projects
// only, and counts pending tasks across the given tasks.
func ClientStats(projects []project.Project, tasks []task.Task) ClientRollup {
	out := ClientRollup{TotalInvested: decimal.Zero}
	for _, p := range projects {
		out.TotalInvested = out.TotalInvested.Add(nonNegative(p.Value))
		if p.Status == project.StatusInProgress {
			out.ActiveProjects++
		}
	}
	for _, t := range tasks {
		if t.Status == task.StatusPending {
			out.PendingTasks++
		}
	}
	return out
}

// TasksOf flattens the checklists of the given projects.
func TasksOf(projects []project.Project) []task.Task {
	var out []task.Task
	for _, p := range projects {
		out = append(out, p.Tasks...)
	}
	return out
}

// Summary is the status-aware financial rollup.
type Summary struct {
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	PendingIncome decimal.Decimal `json:"pending_income"`
	Balance       decimal.Decimal `json:"balance"`
	Margin        float64         `json:"margin"`
}

// FinancialSummary splits income into realized and pending. Expenses are
// counted regardless of status.
func FinancialSummary(txs []finance.Transaction) Summary {
	income, expenses, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, tx := range txs {
		amount := nonNegative(tx.Amount)
		switch tx.Type {
		case finance.TypeIncome:
			if finance.IsPaid(tx) {
				income = income.Add(amount)
			} else {
				pending = pending.Add(amount)
			}
		case finance.TypeExpense:
			expenses = expenses.Add(amount)
		}
	}

	balance := income.Sub(expenses)
	var margin float64
	if income.IsPositive() {
		margin = balance.Div(income).Mul(hundred).Round(2).InexactFloat64()
	}
	return Summary{
		Income:        income,
		Expenses:      expenses,
		PendingIncome: pending,
		Balance:       balance,
		Margin:        margin,
	}
}

// DashboardRevenue is the signed total of every transaction, ignoring status.
func DashboardRevenue(txs []finance.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		amount := nonNegative(tx.Amount)
		switch tx.Type {
		case finance.TypeIncome:
			total = total.Add(amount)
		case finance.TypeExpense:
			total = total.Sub(amount)
		}
	}
	return total
}

// Receivables is the finance tab of a client overview.
type Receivables struct {
	PendingIncome   decimal.Decimal  `json:"pending_income"`
	LastIncome      *decimal.Decimal `json:"last_income,omitempty"`
	LastIncomeDate  *time.Time       `json:"last_income_date,omitempty"`
	NextPendingDate *time.Time       `json:"next_pending_date,omitempty"`
}

// ClientReceivables reports pending income, the most recent realized income
// and the earliest pending due date.
func ClientReceivables(txs []finance.Transaction) Receivables {
	out := Receivables{PendingIncome: decimal.Zero}
	for _, tx := range txs {
		if tx.Type != finance.TypeIncome {
			continue
		}
		date := tx.Date
		if finance.IsPaid(tx) {
			if out.LastIncomeDate == nil || date.After(*out.LastIncomeDate) {
				amount := nonNegative(tx.Amount)
				out.LastIncome = &amount
				out.LastIncomeDate = &date
			}
			continue
		}
		out.PendingIncome = out.PendingIncome.Add(nonNegative(tx.Amount))
		if out.NextPendingDate == nil || date.Before(*out.NextPendingDate) {
			out.NextPendingDate = &date
		}
	}
	return out
}

// ActiveProjectCount counts projects that are not completed, as the
// dashboard headline does.
func ActiveProjectCount(projects []project.Project) int {
	n := 0
	for _, p := range projects {
		if p.Status != project.StatusCompleted {
			n++
		}
	}
	return n
}

// ActiveProjectList keeps pending and in_progress projects in input order.
func ActiveProjectList(projects []project.Project) []project.Project {
	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == project.StatusPending || p.Status == project.StatusInProgress {
			out = append(out, p)
		}
	}
	return out
}

// PendingTaskPreview returns up to n pending tasks in input order.
func PendingTaskPreview(tasks []task.Task, n int) []task.Task {
	if n <= 0 {
		return []task.Task{}
	}
	out := make([]task.Task, 0, n)
	for _, t := range tasks {
		if len(out) >= n {
			break
		}
		if t.Status == task.StatusPending {
			out = append(out, t)
		}
	}
	return out
}

// FeedKind tags the origin of a feed item.
type FeedKind string

const (
	FeedProject FeedKind = "project"
	FeedLead    FeedKind = "lead"
)

// FeedItem is one row of the recent activity feed.
type FeedItem struct {
	Kind      FeedKind  `json:"kind"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentActivity merges projects then leads, sorts newest first and keeps
// limit items. Equal timestamps keep their merged order.
func RecentActivity(projects []project.Project, leads []lead.Lead, limit int) []FeedItem {
	items := make([]FeedItem, 0, len(projects)+len(leads))
	for _, p := range projects {
		items = append(items, FeedItem{Kind: FeedProject, ID: p.ID, Name: p.Name, Status: string(p.Status), CreatedAt: p.CreatedAt})
	}
	for _, l := range leads {
		items = append(items, FeedItem{Kind: FeedLead, ID: l.ID, Name: l.Name, Status: string(l.Status), CreatedAt: l.CreatedAt})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
