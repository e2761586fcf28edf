package services

import (
	"context"
	"fmt"
	"sort"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/sheets"
)

// Exporter builds spreadsheet exports from ledger state and hands
// them to an outbound writer.
type Exporter struct {
	store  *ledger.Store
	writer sheets.ExportWriter
}

func NewExporter(store *ledger.Store, writer sheets.ExportWriter) *Exporter {
	return &Exporter{store: store, writer: writer}
}

// Build assembles the export: every transaction as one row, date
// ascending, plus a summary block with savings and the all-time totals.
func (e *Exporter) Build(ctx context.Context) (sheets.Export, error) {
	transactions, err := e.store.Transactions(ctx)
	if err != nil {
		return sheets.Export{}, fmt.Errorf("build export: %w", err)
	}

	sorted := make([]core.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Compare(sorted[j].Date) < 0
	})

	var income, expense core.Amount
	rows := make([]sheets.TransactionRow, 0, len(sorted))
	for _, t := range sorted {
		label := "Despesa"
		if t.Type == core.TypeIncome {
			label = "Receita"
			income = income.Add(t.Value)
		} else {
			expense = expense.Add(t.Value)
		}
		rows = append(rows, sheets.TransactionRow{
			Date:        t.Date.String(),
			Type:        label,
			Description: t.Description,
			Category:    e.store.DisplayCategory(ctx, t.Category).Name,
			Value:       t.Value.String(),
			Paid:        t.Paid,
		})
	}

	savings, err := e.store.Savings(ctx)
	if err != nil {
		return sheets.Export{}, fmt.Errorf("build export: %w", err)
	}

	summary := []sheets.SummaryRow{
		{Label: "Receitas", Value: income.String()},
		{Label: "Despesas", Value: expense.String()},
		{Label: "Saldo", Value: income.Sub(expense).String()},
		{Label: "Poupança", Value: savings.String()},
	}

	return sheets.Export{Transactions: rows, Summary: summary}, nil
}

// Run builds the export and writes it out.
func (e *Exporter) Run(ctx context.Context) error {
	export, err := e.Build(ctx)
	if err != nil {
		return err
	}
	if err := e.writer.Write(ctx, export); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
