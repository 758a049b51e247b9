// Package export produces downloadable xlsx workbooks: intake templates and
// the current stock report.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/service/stock"
)

const sheetName = "Sheet1"

// templateHeaders defines the column layout of each bulk-intake template.
var templateHeaders = map[string][]string{
	"ppe":       {"Code", "Name", "Unit", "InitialQty", "LowStockLevel"},
	"materials": {"Code", "Description", "Unit", "SourceProject", "SourceUnitRate", "ReceivedDate", "Quantity"},
	"equipment": {"Tag", "Name", "Category", "Location", "Custodian"},
}

// Service builds xlsx files streamed by the export handlers.
type Service struct {
	stock  *stock.Service
	logger *zap.Logger
}

// NewService wires a new export service instance.
func NewService(stockSvc *stock.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stock: stockSvc, logger: logger}
}

// TemplateKinds lists the supported template names.
func TemplateKinds() []string {
	return []string{"ppe", "materials", "equipment"}
}

// Template builds an empty intake workbook with the headers for the kind.
func (s *Service) Template(kind string) (*excelize.File, error) {
	headers, ok := templateHeaders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown template kind %q", kind)
	}

	f := excelize.NewFile()
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("build header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	return f, nil
}

// StockReport builds a workbook with one row per item summary.
func (s *Service) StockReport(ctx context.Context) (*excelize.File, error) {
	summaries, err := s.stock.SummaryAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	headers := []string{"ItemCode", "Name", "Unit", "CurrentBalance", "InitialStock", "TotalIssued", "LastIssueDate"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("build header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for row, summary := range summaries {
		lastIssue := ""
		if summary.LastIssueDate != nil {
			lastIssue = summary.LastIssueDate.Format("2006-01-02")
		}
		values := []interface{}{
			summary.ItemCode,
			summary.Name,
			summary.Unit,
			summary.CurrentBalance,
			summary.InitialStock,
			summary.TotalIssued,
			lastIssue,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("build data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	s.logger.Debug("stock report workbook built", zap.Int("rows", len(summaries)))
	return f, nil
}
