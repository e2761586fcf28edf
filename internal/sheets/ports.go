package sheets

import "context"

// TransactionRow is one spreadsheet line of the export.
type TransactionRow struct {
	Date        string
	Type        string
	Description string
	Category    string
	Value       string
	Paid        bool
}

// SummaryRow is one label/value line of the summary block.
type SummaryRow struct {
	Label string
	Value string
}

// Export is the full spreadsheet payload: the transaction list plus
// the totals block written to a separate sheet.
type Export struct {
	Transactions []TransactionRow
	Summary      []SummaryRow
}

// ExportWriter is the outbound port for spreadsheet exports.
type ExportWriter interface {
	Write(ctx context.Context, export Export) error
}
