package refdata

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"facturas/internal/logger"
)

// SheetsSource reads reference tables from a Google Sheets workbook.
// Each table lives on its own worksheet with the columns value, label
// and up to three extra columns.
type SheetsSource struct {
	sheetsService *sheets.Service
	spreadsheetID string
}

// NewSheetsSource creates a source for the workbook at the given URL.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS (a service
// account key file) or GOOGLE_CREDENTIALS (the key JSON inline).
func NewSheetsSource(ctx context.Context, sheetURL string) (*SheetsSource, error) {
	const op = "NewSheetsSource"

	log := logger.WithComponent("refdata")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &SheetsSource{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}

	return matches[1], nil
}

// Table reads a worksheet and returns its rows. The header row is
// skipped; columns beyond label land in Extra.
func (s *SheetsSource) Table(ctx context.Context, name string) ([]Row, error) {
	const op = "SheetsSource.Table"

	readRange := fmt.Sprintf("%s!A:E", name)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %s: %w", op, name, err)
	}

	rows := make([]Row, 0, len(resp.Values))
	for i, cells := range resp.Values {
		if i == 0 {
			continue // header
		}
		row := Row{Value: cellString(cells, 0), Label: cellString(cells, 1)}
		for col := 2; col < len(cells) && col < 5; col++ {
			row.Extra = append(row.Extra, cellString(cells, col))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cellString(cells []interface{}, i int) string {
	if i >= len(cells) {
		return ""
	}
	s, _ := cells[i].(string)
	return s
}
