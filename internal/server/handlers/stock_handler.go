package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/server/middleware"
	stocksvc "github.com/tidianess/assetflow/internal/service/stock"
)

// StockHandler exposes the PPE stock and request endpoints.
type StockHandler struct {
	svc    *stocksvc.Service
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(svc *stocksvc.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

type createItemRequest struct {
	Code          string  `json:"code" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Unit          string  `json:"unit"`
	InitialQty    float64 `json:"initial_qty"`
	LowStockLevel float64 `json:"low_stock_level"`
}

// CreateItem registers a PPE master record with its opening balance.
func (h *StockHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), stocksvc.CreateItemInput{
		Code:          req.Code,
		Name:          req.Name,
		Unit:          req.Unit,
		InitialQty:    req.InitialQty,
		LowStockLevel: req.LowStockLevel,
		Actor:         middleware.Actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems returns master records; ?retired=true includes retired ones.
func (h *StockHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context(), c.Query("retired") == "true")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns one master record.
func (h *StockHandler) GetItem(c *gin.Context) {
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RetireItem logically removes a master record.
func (h *StockHandler) RetireItem(c *gin.Context) {
	if err := h.svc.RetireItem(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary returns one item's derived ledger summary.
func (h *StockHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SummaryAll returns the batched per-item summaries.
func (h *StockHandler) SummaryAll(c *gin.Context) {
	summaries, err := h.svc.SummaryAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

// History returns one item's full ordered ledger.
func (h *StockHandler) History(c *gin.Context) {
	txs, err := h.svc.History(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

type issueRequest struct {
	ItemCode   string  `json:"item_code" binding:"required"`
	Qty        float64 `json:"qty"`
	RequestRef string  `json:"request_ref"`
	Bulk       bool    `json:"bulk"`
	Note       string  `json:"note"`
}

// Issue records an issuance, optionally fulfilling a pending request.
func (h *StockHandler) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tx, err := h.svc.Issue(c.Request.Context(), stocksvc.IssueInput{
		ItemCode:   req.ItemCode,
		Qty:        req.Qty,
		RequestRef: req.RequestRef,
		Bulk:       req.Bulk,
		Actor:      middleware.Actor(c),
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

type quantityRequest struct {
	ItemCode string  `json:"item_code" binding:"required"`
	Qty      float64 `json:"qty" binding:"required"`
	Note     string  `json:"note"`
}

// Return books returned stock back into the balance.
func (h *StockHandler) Return(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tx, err := h.svc.Return(c.Request.Context(), req.ItemCode, req.Qty, middleware.Actor(c), req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

type adjustRequest struct {
	ItemCode string  `json:"item_code" binding:"required"`
	Delta    float64 `json:"delta" binding:"required"`
	Note     string  `json:"note"`
}

// Adjust books a signed correction against the balance.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tx, err := h.svc.Adjust(c.Request.Context(), req.ItemCode, req.Delta, middleware.Actor(c), req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

type createRequestRequest struct {
	ItemCode string  `json:"item_code" binding:"required"`
	Qty      float64 `json:"qty" binding:"required"`
	Purpose  string  `json:"purpose"`
}

// CreateRequest reserves quantity for a pending claim.
func (h *StockHandler) CreateRequest(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateRequest(c.Request.Context(), req.ItemCode, req.Qty, middleware.Actor(c), req.Purpose)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListRequests returns requests by status (?status=, default pending).
func (h *StockHandler) ListRequests(c *gin.Context) {
	status := models.RequestStatus(c.DefaultQuery("status", string(models.RequestPending)))
	switch status {
	case models.RequestPending, models.RequestIssued, models.RequestRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown request status"})
		return
	}

	reqs, err := h.svc.ListRequests(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// RejectRequest closes a pending request and releases its reservation.
func (h *StockHandler) RejectRequest(c *gin.Context) {
	req, err := h.svc.RejectRequest(c.Request.Context(), c.Param("ref"), middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
