package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportNote is attached to every order created from a bulk upload.
const ImportNote = "Uploaded via CSV"

// Reasons for skipped rows that are not ledger errors.
const (
	ReasonMissingProductID = "missing_product_id"
	ReasonMissingName      = "missing_name"
	ReasonMalformed        = "malformed"
	ReasonCancelled        = "cancelled"
)

// RawRow is one parsed upload row. BadField names a column the parser could not read.
type RawRow struct {
	Line      int
	ProductID string
	Name      string
	Category  string
	Quantity  int
	Price     decimal.Decimal
	CostPrice *decimal.Decimal
	OrderedAt *time.Time
	BadField  string
}

type RowIssue struct {
	Row       int    `json:"row"`
	ProductID string `json:"product_id,omitempty"`
	Kind      Kind   `json:"kind,omitempty"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason"`
}

type ImportReport struct {
	RowsSeen    int        `json:"rows_seen"`
	RowsApplied int        `json:"rows_applied"`
	RowsSkipped int        `json:"rows_skipped"`
	Skipped     []RowIssue `json:"skipped"`
	Products    []string   `json:"products"`
}

func (r *ImportReport) skip(issue RowIssue) {
	r.RowsSkipped++
	r.Skipped = append(r.Skipped, issue)
}

// Reconciler replays uploaded rows through the engine one at a time.
type Reconciler struct {
	engine *Engine
	log    *zap.Logger
}

func NewReconciler(engine *Engine) *Reconciler {
	return &Reconciler{engine: engine, log: engine.log.Named("import")}
}

// ImportBatch applies rows in order. Rows that fail are reported and skipped; the
// batch itself never fails.
func (r *Reconciler) ImportBatch(ctx context.Context, accountID string, rows []RawRow) ImportReport {
	report := ImportReport{Skipped: []RowIssue{}, Products: []string{}}
	seen := map[string]bool{}

	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 1
		}
		report.RowsSeen++

		if ctx.Err() != nil {
			report.skip(RowIssue{Row: line, ProductID: row.ProductID, Reason: ReasonCancelled})
			r.engine.opts.Metrics.observeImportRow(ReasonCancelled)
			continue
		}

		if issue, ok := precheck(row, line); !ok {
			report.skip(issue)
			r.engine.opts.Metrics.observeImportRow(issue.Reason)
			continue
		}

		req := OrderRequest{
			AccountID: accountID,
			ProductID: row.ProductID,
			Name:      row.Name,
			Category:  row.Category,
			Quantity:  row.Quantity,
			UnitPrice: row.Price,
			CostPrice: row.CostPrice,
			Notes:     ImportNote,
			OrderedAt: row.OrderedAt,
			Source:    models.SourceImport,
		}
		_, err := r.engine.record(ctx, req, r.engine.opts.ImportZeroQuantity)
		r.engine.opts.Metrics.observeOrder(string(models.SourceImport), err)
		if err != nil {
			issue := RowIssue{Row: line, ProductID: row.ProductID, Reason: err.Error()}
			var le *Error
			if errors.As(err, &le) {
				issue.Kind = le.Kind
				issue.Field = le.Field
				issue.Reason = le.Message
				if issue.Reason == "" {
					issue.Reason = string(le.Kind)
				}
			}
			r.log.Info("import row skipped",
				zap.String("account_id", accountID),
				zap.Int("row", line),
				zap.String("product_id", row.ProductID),
				zap.String("kind", string(issue.Kind)))
			report.skip(issue)
			r.engine.opts.Metrics.observeImportRow(string(issue.Kind))
			continue
		}

		report.RowsApplied++
		r.engine.opts.Metrics.observeImportRow("applied")
		if !seen[row.ProductID] {
			seen[row.ProductID] = true
			report.Products = append(report.Products, row.ProductID)
		}
	}

	r.log.Info("import finished",
		zap.String("account_id", accountID),
		zap.Int("rows_seen", report.RowsSeen),
		zap.Int("rows_applied", report.RowsApplied),
		zap.Int("rows_skipped", report.RowsSkipped))
	return report
}

func precheck(row RawRow, line int) (RowIssue, bool) {
	switch {
	case strings.TrimSpace(row.ProductID) == "":
		return RowIssue{Row: line, Kind: KindInvalidInput, Field: "product_id", Reason: ReasonMissingProductID}, false
	case strings.TrimSpace(row.Name) == "":
		return RowIssue{Row: line, ProductID: row.ProductID, Kind: KindInvalidInput, Field: "name", Reason: ReasonMissingName}, false
	case row.BadField != "":
		return RowIssue{Row: line, ProductID: row.ProductID, Kind: KindInvalidInput, Field: row.BadField, Reason: ReasonMalformed}, false
	}
	return RowIssue{}, true
}
