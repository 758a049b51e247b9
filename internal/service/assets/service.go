// Package assets manages the equipment registry, calibration certificates and
// custody transfers.
package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tidianess/assetflow/internal/domain/models"
	"github.com/tidianess/assetflow/internal/repository/mongodb"
)

// Service wraps the asset repository with validation and audit logging.
type Service struct {
	repo   mongodb.AssetRepository
	logger *zap.Logger
}

// NewService wires a new assets service instance.
func NewService(repo mongodb.AssetRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// RegisterInput describes a new piece of equipment.
type RegisterInput struct {
	Tag       string
	Name      string
	Category  string
	Location  string
	Custodian string
	Actor     string
}

// Register adds equipment to the registry under a unique tag.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Equipment, error) {
	in.Tag = strings.TrimSpace(in.Tag)
	if in.Tag == "" {
		return nil, fmt.Errorf("equipment tag is required: %w", models.ErrValidation)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("equipment name is required: %w", models.ErrValidation)
	}

	now := time.Now().UTC()
	eq := models.Equipment{
		Tag:       in.Tag,
		Name:      in.Name,
		Category:  in.Category,
		Location:  in.Location,
		Custodian: in.Custodian,
		Status:    models.EquipmentInService,
		CreatedBy: in.Actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateEquipment(ctx, eq); err != nil {
		return nil, err
	}
	return &eq, nil
}

// Get returns one equipment record by tag.
func (s *Service) Get(ctx context.Context, tag string) (*models.Equipment, error) {
	return s.repo.GetEquipment(ctx, tag)
}

// List returns equipment, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]models.Equipment, error) {
	return s.repo.ListEquipment(ctx, category)
}

// SetStatus moves equipment between registry states.
func (s *Service) SetStatus(ctx context.Context, tag string, status models.EquipmentStatus) error {
	switch status {
	case models.EquipmentInService, models.EquipmentUnderRepair, models.EquipmentDecommission:
	default:
		return fmt.Errorf("unknown equipment status %q: %w", status, models.ErrValidation)
	}
	return s.repo.UpdateEquipmentStatus(ctx, tag, status)
}

// Transfer hands equipment from its current custodian to a new one and appends
// the transfer to the custody log. The custodian update is conditional on the
// expected holder, so a stale transfer fails instead of overwriting.
func (s *Service) Transfer(ctx context.Context, tag, fromCustodian, toCustodian, actor, remarks string) (*models.CustodyTransfer, error) {
	if toCustodian == "" {
		return nil, fmt.Errorf("receiving custodian is required: %w", models.ErrValidation)
	}
	if fromCustodian == toCustodian {
		return nil, fmt.Errorf("custodians must differ: %w", models.ErrValidation)
	}

	if _, err := s.repo.TransferCustody(ctx, tag, fromCustodian, toCustodian); err != nil {
		return nil, err
	}

	transfer := models.CustodyTransfer{
		EquipmentTag:  tag,
		FromCustodian: fromCustodian,
		ToCustodian:   toCustodian,
		Actor:         actor,
		TransferredAt: time.Now().UTC(),
		Remarks:       remarks,
	}
	if err := s.repo.AppendTransfer(ctx, transfer); err != nil {
		s.logger.Error("custody log entry not appended", zap.String("tag", tag), zap.Error(err))
		return nil, err
	}

	s.logger.Info("custody transferred",
		zap.String("tag", tag),
		zap.String("from", fromCustodian),
		zap.String("to", toCustodian))
	return &transfer, nil
}

// Transfers returns the custody log for one equipment tag.
func (s *Service) Transfers(ctx context.Context, tag string) ([]models.CustodyTransfer, error) {
	if _, err := s.repo.GetEquipment(ctx, tag); err != nil {
		return nil, err
	}
	return s.repo.ListTransfers(ctx, tag)
}

// CertificateInput describes a calibration certificate.
type CertificateInput struct {
	EquipmentTag  string
	CertificateNo string
	IssuedBy      string
	CalibratedAt  time.Time
	ExpiresAt     time.Time
}

// AddCertificate attaches a calibration certificate to existing equipment.
func (s *Service) AddCertificate(ctx context.Context, in CertificateInput) (*models.Certificate, error) {
	if in.CertificateNo == "" {
		return nil, fmt.Errorf("certificate number is required: %w", models.ErrValidation)
	}
	if !in.ExpiresAt.After(in.CalibratedAt) {
		return nil, fmt.Errorf("expiry must be after calibration date: %w", models.ErrValidation)
	}
	if _, err := s.repo.GetEquipment(ctx, in.EquipmentTag); err != nil {
		return nil, err
	}

	cert := models.Certificate{
		EquipmentTag:  in.EquipmentTag,
		CertificateNo: in.CertificateNo,
		IssuedBy:      in.IssuedBy,
		CalibratedAt:  in.CalibratedAt,
		ExpiresAt:     in.ExpiresAt,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.AddCertificate(ctx, cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// Certificates returns the certificates attached to one equipment tag.
func (s *Service) Certificates(ctx context.Context, tag string) ([]models.Certificate, error) {
	if _, err := s.repo.GetEquipment(ctx, tag); err != nil {
		return nil, err
	}
	return s.repo.ListCertificates(ctx, tag)
}

// ExpiringCertificates lists certificates expiring within the window.
func (s *Service) ExpiringCertificates(ctx context.Context, within time.Duration) ([]models.Certificate, error) {
	return s.repo.ListExpiringCertificates(ctx, time.Now().UTC().Add(within))
}
