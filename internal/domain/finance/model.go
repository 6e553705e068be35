package finance

import (
	"time"

	"github.com/aceweb/agencyops/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// Type is the direction of a cash movement
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ParseType validates a raw transaction type.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeIncome, TypeExpense:
		return t, nil
	default:
		return "", validation.New("type", "unrecognized transaction type "+raw)
	}
}

// Status is the settlement state of a transaction. The zero value means the
// status was never recorded and counts as paid.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

// ParseStatus validates a raw status. An empty value is accepted and left
// empty.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case "", StatusPaid, StatusPending:
		return s, nil
	default:
		return "", validation.New("status", "unrecognized transaction status "+raw)
	}
}

// Transaction is a recorded cash movement. Amount is always a magnitude; the
// sign comes from Type.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category,omitempty"`
	Status      Status          `json:"status,omitempty"`
	ProjectID   *string         `json:"project_id,omitempty"`
	ProjectName string          `json:"project_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EffectiveStatus resolves an absent status to paid.
func EffectiveStatus(tx Transaction) Status {
	if tx.Status == "" {
		return StatusPaid
	}
	return tx.Status
}

// IsPaid reports whether the transaction counts as realized.
func IsPaid(tx Transaction) bool {
	return EffectiveStatus(tx) == StatusPaid
}

// MarkPaid returns a copy of tx settled as paid.
func MarkPaid(tx Transaction) Transaction {
	tx.Status = StatusPaid
	return tx
}
