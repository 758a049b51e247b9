package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/tidianess/assetflow/internal/config"
	"github.com/tidianess/assetflow/internal/domain/models"
)

const (
	reportRange = "StockReport!A:G"
	dateLayout  = "2006-01-02"
)

// Repository mirrors daily stock reports into a shared spreadsheet so the
// stores team can read them without API access.
type Repository interface {
	AppendDailyReport(ctx context.Context, report models.DailyStockReport) error
}

// GoogleSheetRepository implements Repository using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
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

// AppendDailyReport appends one row per item to the report sheet.
func (r *GoogleSheetRepository) AppendDailyReport(ctx context.Context, report models.DailyStockReport) error {
	if len(report.Items) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(report.Items))
	for _, entry := range report.Items {
		rows = append(rows, []interface{}{
			report.Date.Format(dateLayout),
			entry.ItemCode,
			entry.Name,
			entry.CurrentBalance,
			entry.TotalIssued,
			entry.PendingQty,
			entry.Reconciled,
		})
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report rows into range %s: %w", reportRange, err)
	}

	r.logger.Debug("daily report mirrored to sheet",
		zap.String("range", reportRange),
		zap.Int("rows", len(rows)))
	return nil
}
