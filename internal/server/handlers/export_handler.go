package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportsvc "github.com/tidianess/assetflow/internal/service/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams xlsx workbooks.
type ExportHandler struct {
	svc    *exportsvc.Service
	logger *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(svc *exportsvc.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Template streams an empty intake template for the requested kind.
func (h *ExportHandler) Template(c *gin.Context) {
	kind := c.Param("kind")
	f, err := h.svc.Template(kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-template.xlsx", kind))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("template stream failed", zap.String("kind", kind), zap.Error(err))
	}
}

// StockReport streams the current stock summary workbook.
func (h *ExportHandler) StockReport(c *gin.Context) {
	f, err := h.svc.StockReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename=stock-report.xlsx")
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("report stream failed", zap.Error(err))
	}
}
