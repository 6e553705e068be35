// Package export renders transaction reports and hands them to a sink.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/aceweb/agencyops/internal/metrics"
)

// TransactionReader is the read side of the transaction store.
type TransactionReader interface {
	List(ctx context.Context, opts finance.ListOptions) ([]finance.Transaction, error)
}

// Report describes a finished export.
type Report struct {
	Location string          `json:"location"`
	Rows     int             `json:"rows"`
	Summary  metrics.Summary `json:"summary"`
}

// Exporter writes transaction reports.
type Exporter struct {
	txs    TransactionReader
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(txs TransactionReader, sink Sink, logger *slog.Logger) *Exporter {
	return &Exporter{txs: txs, sink: sink, logger: logger, now: time.Now}
}

// ExportTransactions writes the filtered transactions as CSV.
func (e *Exporter) ExportTransactions(ctx context.Context, opts finance.ListOptions) (*Report, error) {
	txs, err := e.txs.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("transactions-%s.csv", e.now().UTC().Format("20060102T150405Z"))
	location, err := e.sink.Put(ctx, name, buf.Bytes(), "text/csv")
	if err != nil {
		return nil, err
	}
	if e.logger != nil {
		e.logger.InfoContext(ctx, "transactions exported", "location", location, "rows", len(txs))
	}
	return &Report{Location: location, Rows: len(txs), Summary: metrics.FinancialSummary(txs)}, nil
}
