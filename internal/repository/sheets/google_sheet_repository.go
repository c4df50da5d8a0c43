// Package sheets appends report rows to a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/poultry-api/internal/config"
)

// Repository is the spreadsheet surface the reporting service writes to.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []any) error
	ReadRange(ctx context.Context, sheetRange string) ([][]any, error)
}

// ErrEmptyRange is returned when no A1 range is given.
var ErrEmptyRange = errors.New("sheet range must not be empty")

// GoogleSheetRepository talks to one spreadsheet through the Sheets v4 API.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service account file from cfg unless
// explicit client options are given.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends one row below the last filled row of sheetRange. Values are stored
// as given, so dates stay text and read back unchanged.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []any) error {
	if sheetRange == "" {
		return ErrEmptyRange
	}

	_, err := r.values.Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended", zap.String("range", sheetRange), zap.Int("cells", len(values)))
	return nil
}

// ReadRange returns the formatted cell values of sheetRange. An empty range yields no rows.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]any, error) {
	if sheetRange == "" {
		return nil, ErrEmptyRange
	}

	resp, err := r.values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}
