package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/server/middleware"
	assetsvc "github.com/tidianess/assetflow/internal/service/assets"
)

// AssetHandler exposes the equipment registry endpoints.
type AssetHandler struct {
	svc    *assetsvc.Service
	logger *zap.Logger
}

// NewAssetHandler constructs the HTTP handler adapter.
func NewAssetHandler(svc *assetsvc.Service, logger *zap.Logger) *AssetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetHandler{svc: svc, logger: logger}
}

type registerEquipmentRequest struct {
	Tag       string `json:"tag" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	Location  string `json:"location"`
	Custodian string `json:"custodian"`
}

// Register adds equipment to the registry.
func (h *AssetHandler) Register(c *gin.Context) {
	var req registerEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	eq, err := h.svc.Register(c.Request.Context(), assetsvc.RegisterInput{
		Tag:       req.Tag,
		Name:      req.Name,
		Category:  req.Category,
		Location:  req.Location,
		Custodian: req.Custodian,
		Actor:     middleware.Actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, eq)
}

// List returns equipment; ?category filters.
func (h *AssetHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": items})
}

// Get returns one equipment record.
func (h *AssetHandler) Get(c *gin.Context) {
	eq, err := h.svc.Get(c.Request.Context(), c.Param("tag"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves equipment between registry states.
func (h *AssetHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), c.Param("tag"), models.EquipmentStatus(req.Status)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transferRequest struct {
	FromCustodian string `json:"from_custodian" binding:"required"`
	ToCustodian   string `json:"to_custodian" binding:"required"`
	Remarks       string `json:"remarks"`
}

// Transfer hands equipment to a new custodian.
func (h *AssetHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	transfer, err := h.svc.Transfer(c.Request.Context(), c.Param("tag"),
		req.FromCustodian, req.ToCustodian, middleware.Actor(c), req.Remarks)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

// Transfers returns the custody log for one tag.
func (h *AssetHandler) Transfers(c *gin.Context) {
	transfers, err := h.svc.Transfers(c.Request.Context(), c.Param("tag"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": transfers})
}

type certificateRequest struct {
	CertificateNo string `json:"certificate_no" binding:"required"`
	IssuedBy      string `json:"issued_by"`
	CalibratedAt  string `json:"calibrated_at" binding:"required"`
	ExpiresAt     string `json:"expires_at" binding:"required"`
}

// AddCertificate attaches a calibration certificate.
func (h *AssetHandler) AddCertificate(c *gin.Context) {
	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	calibrated, err := time.Parse(dateLayout, req.CalibratedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calibrated_at must be YYYY-MM-DD"})
		return
	}
	expires, err := time.Parse(dateLayout, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be YYYY-MM-DD"})
		return
	}

	cert, err := h.svc.AddCertificate(c.Request.Context(), assetsvc.CertificateInput{
		EquipmentTag:  c.Param("tag"),
		CertificateNo: req.CertificateNo,
		IssuedBy:      req.IssuedBy,
		CalibratedAt:  calibrated,
		ExpiresAt:     expires,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

// Certificates returns the certificates attached to one tag.
func (h *AssetHandler) Certificates(c *gin.Context) {
	certs, err := h.svc.Certificates(c.Request.Context(), c.Param("tag"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// ExpiringCertificates lists certificates expiring within ?days (default 30).
func (h *AssetHandler) ExpiringCertificates(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
		return
	}

	certs, err := h.svc.ExpiringCertificates(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}
