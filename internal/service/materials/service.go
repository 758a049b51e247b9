// Package materials manages returned/surplus materials: intake with
// acquisition metadata, age-based valuation and terminal disposal.
package materials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/domain/valuation"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
	"github.com/tidianess/assetflow/internal/service/stock"
)

// Service coordinates material records with the shared stock accounting.
type Service struct {
	materials mongodb.MaterialRepository
	stock     *stock.Service
	logger    *zap.Logger
}

// NewService wires a new materials service instance.
func NewService(materials mongodb.MaterialRepository, stockSvc *stock.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{materials: materials, stock: stockSvc, logger: logger}
}

// RegisterInput describes a material received back into the warehouse.
type RegisterInput struct {
	Code           string
	Description    string
	Unit           string
	SourceProject  string
	SourceUnitRate float64
	ReceivedDate   *time.Time
	Quantity       float64
	Actor          string
}

// Register records a returned material and opens its stock item so requests
// and issuances run through the same ledger as PPE stock.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Material, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" {
		return nil, fmt.Errorf("material code is required: %w", models.ErrValidation)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("material description is required: %w", models.ErrValidation)
	}
	if in.SourceUnitRate < 0 {
		return nil, fmt.Errorf("source unit rate must not be negative: %w", models.ErrValidation)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", models.ErrValidation)
	}

	now := time.Now().UTC()
	material := models.Material{
		Code:           in.Code,
		Description:    in.Description,
		Unit:           in.Unit,
		SourceProject:  in.SourceProject,
		SourceUnitRate: in.SourceUnitRate,
		ReceivedDate:   in.ReceivedDate,
		Status:         models.MaterialInStock,
		CreatedBy:      in.Actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}

	// Materials share the stock ledger, so intake opens a stock item whose
	// initial transaction carries the received quantity.
	if _, err := s.stock.CreateItem(ctx, stock.CreateItemInput{
		Code:       in.Code,
		Name:       in.Description,
		Unit:       in.Unit,
		InitialQty: in.Quantity,
		Actor:      in.Actor,
	}); err != nil {
		s.logger.Error("stock item not opened for material; reconcile from ledger",
			zap.String("code", in.Code), zap.Error(err))
		return nil, err
	}

	return &material, nil
}

// Get returns one material by code.
func (s *Service) Get(ctx context.Context, code string) (*models.Material, error) {
	return s.materials.GetByCode(ctx, code)
}

// List returns materials, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.MaterialStatus) ([]models.Material, error) {
	return s.materials.List(ctx, status)
}

// Valuate computes the age-adjusted worth of a material at the given event
// date. Missing acquisition dates fall back to the source rate unchanged.
func (s *Service) Valuate(ctx context.Context, code string, quantity float64, eventDate time.Time) (*models.MaterialValuation, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", models.ErrValidation)
	}
	if eventDate.IsZero() {
		eventDate = time.Now().UTC()
	}

	material, err := s.materials.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.valuate(material, quantity, eventDate), nil
}

func (s *Service) valuate(material *models.Material, quantity float64, eventDate time.Time) *models.MaterialValuation {
	sourceRate := decimal.NewFromFloat(material.SourceUnitRate)
	adjusted := valuation.Adjusted(sourceRate, material.ReceivedDate, &eventDate)
	qty := decimal.NewFromFloat(quantity)

	adjustedRate, _ := adjusted.Float64()
	originalValue, _ := sourceRate.Mul(qty).Float64()
	valueAtEvent, _ := adjusted.Mul(qty).Float64()

	return &models.MaterialValuation{
		Code:          material.Code,
		Quantity:      quantity,
		SourceRate:    material.SourceUnitRate,
		AdjustedRate:  adjustedRate,
		OriginalValue: originalValue,
		ValueAtEvent:  valueAtEvent,
		EventDate:     eventDate,
	}
}

// Dispose moves a material to its terminal disposed state, recording the
// age-adjusted unit value at the disposal date.
func (s *Service) Dispose(ctx context.Context, code string, actor string) (*models.Material, error) {
	material, err := s.materials.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	disposalValue, _ := valuation.Adjusted(
		decimal.NewFromFloat(material.SourceUnitRate),
		material.ReceivedDate,
		&now,
	).Float64()

	disposed, err := s.materials.MarkDisposed(ctx, code, now, disposalValue)
	if err != nil {
		return nil, err
	}

	s.logger.Info("material disposed",
		zap.String("code", code),
		zap.String("actor", actor),
		zap.Float64("disposal_value", disposalValue))
	return disposed, nil
}
