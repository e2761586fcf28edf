package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "financas/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	summarySheet      string
}

var _ ports.ExportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
// Optional sheet names: GOOGLE_TRANSACTIONS_SHEET_NAME (default
// "Transações"), GOOGLE_SUMMARY_SHEET_NAME (default "Resumo").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	transactionsSheet := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if transactionsSheet == "" {
		transactionsSheet = "Transações"
	}
	summarySheet := strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"))
	if summarySheet == "" {
		summarySheet = "Resumo"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: transactionsSheet,
		summarySheet:      summarySheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// Write replaces the transactions sheet and the summary sheet with the
// export contents. Existing rows beyond the export are cleared first so
// stale lines from a previous, longer export never survive.
func (c *Client) Write(ctx context.Context, export ports.Export) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	txValues := [][]any{{"Data", "Tipo", "Descrição", "Categoria", "Valor", "Pago"}}
	for _, row := range export.Transactions {
		paid := "Não"
		if row.Paid {
			paid = "Sim"
		}
		txValues = append(txValues, []any{row.Date, row.Type, row.Description, row.Category, row.Value, paid})
	}

	clearRange := fmt.Sprintf("%s!A:F", c.transactionsSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.transactionsSheet, err)
	}

	txRange := fmt.Sprintf("%s!A1:F%d", c.transactionsSheet, len(txValues))
	vr := &gsheet.ValueRange{Values: txValues}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, txRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.transactionsSheet, err)
	}

	summaryValues := make([][]any, 0, len(export.Summary))
	for _, row := range export.Summary {
		summaryValues = append(summaryValues, []any{row.Label, row.Value})
	}
	summaryRange := fmt.Sprintf("%s!A1:B%d", c.summarySheet, len(summaryValues))
	vr = &gsheet.ValueRange{Values: summaryValues}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, summaryRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.summarySheet, err)
	}

	slog.InfoContext(ctx, "Export written to spreadsheet",
		"transactions", len(export.Transactions),
		"spreadsheet_id", c.spreadsheetID)
	return nil
}
