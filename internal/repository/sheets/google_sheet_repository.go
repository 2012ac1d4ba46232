package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/emreacar/kafepos/internal/config"
	"github.com/emreacar/kafepos/internal/domain/models"
)

const dailyCloseRange = "DailyCloses!A:G"

// Repository defines the spreadsheet export supported by the Google Sheets adapter.
type Repository interface {
	AppendDailyClose(ctx context.Context, close models.DailyClose) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed export instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailyClose appends one bookkeeping row for the closed business day.
func (r *GoogleSheetRepository) AppendDailyClose(ctx context.Context, close models.DailyClose) error {
	values := []interface{}{
		close.Date,
		close.TotalRevenue,
		close.TotalGrossProfit,
		close.TotalExpenses,
		close.NetOperatingProfit,
		close.ItemsSold,
		close.ProfitIncomplete,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, dailyCloseRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append daily close row: %w", err)
	}

	r.logger.Debug("daily close row appended", zap.String("date", close.Date))
	return nil
}
