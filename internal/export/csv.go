package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aceweb/agencyops/internal/domain/finance"
)

var transactionHeader = []string{"date", "description", "type", "category", "status", "amount", "project"}

// WriteCSV writes one row per transaction. The status column shows the
// effective status, so rows without a recorded status read as paid.
func WriteCSV(w io.Writer, txs []finance.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			string(tx.Type),
			tx.Category,
			string(finance.EffectiveStatus(tx)),
			tx.Amount.StringFixed(2),
			tx.ProjectName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
