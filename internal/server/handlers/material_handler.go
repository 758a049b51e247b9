package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/server/middleware"
	materialsvc "github.com/tidianess/assetflow/internal/service/materials"
)

const dateLayout = "2006-01-02"

// MaterialHandler exposes the returned-materials endpoints.
type MaterialHandler struct {
	svc    *materialsvc.Service
	logger *zap.Logger
}

// NewMaterialHandler constructs the HTTP handler adapter.
func NewMaterialHandler(svc *materialsvc.Service, logger *zap.Logger) *MaterialHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialHandler{svc: svc, logger: logger}
}

type registerMaterialRequest struct {
	Code           string  `json:"code" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Unit           string  `json:"unit"`
	SourceProject  string  `json:"source_project"`
	SourceUnitRate float64 `json:"source_unit_rate"`
	ReceivedDate   string  `json:"received_date"`
	Quantity       float64 `json:"quantity"`
}

// Register records a material received back into the warehouse.
func (h *MaterialHandler) Register(c *gin.Context) {
	var req registerMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var received *time.Time
	if req.ReceivedDate != "" {
		parsed, err := time.Parse(dateLayout, req.ReceivedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "received_date must be YYYY-MM-DD"})
			return
		}
		received = &parsed
	}

	material, err := h.svc.Register(c.Request.Context(), materialsvc.RegisterInput{
		Code:           req.Code,
		Description:    req.Description,
		Unit:           req.Unit,
		SourceProject:  req.SourceProject,
		SourceUnitRate: req.SourceUnitRate,
		ReceivedDate:   received,
		Quantity:       req.Quantity,
		Actor:          middleware.Actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

// List returns materials; ?status filters by lifecycle state.
func (h *MaterialHandler) List(c *gin.Context) {
	status := models.MaterialStatus(c.Query("status"))
	switch status {
	case "", models.MaterialInStock, models.MaterialDisposed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown material status"})
		return
	}

	materials, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// Get returns one material record.
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// Valuation computes the age-adjusted value (?qty=, ?date=YYYY-MM-DD).
func (h *MaterialHandler) Valuation(c *gin.Context) {
	qty, err := strconv.ParseFloat(c.DefaultQuery("qty", "1"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qty must be numeric"})
		return
	}

	var eventDate time.Time
	if raw := c.Query("date"); raw != "" {
		eventDate, err = time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	result, err := h.svc.Valuate(c.Request.Context(), c.Param("code"), qty, eventDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Dispose moves a material to its terminal disposed state.
func (h *MaterialHandler) Dispose(c *gin.Context) {
	material, err := h.svc.Dispose(c.Request.Context(), c.Param("code"), middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, material)
}
