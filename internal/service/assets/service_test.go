package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidianess/assetflow/internal/domain/models"
)

type fakeAssets struct {
	equipment map[string]*models.Equipment
	certs     []models.Certificate
	transfers []models.CustodyTransfer
}

func newFakeAssets(equipment ...models.Equipment) *fakeAssets {
	f := &fakeAssets{equipment: make(map[string]*models.Equipment)}
	for i := range equipment {
		eq := equipment[i]
		f.equipment[eq.Tag] = &eq
	}
	return f
}

func (f *fakeAssets) CreateEquipment(_ context.Context, eq models.Equipment) error {
	if _, ok := f.equipment[eq.Tag]; ok {
		return models.ErrDuplicateCode
	}
	f.equipment[eq.Tag] = &eq
	return nil
}

func (f *fakeAssets) GetEquipment(_ context.Context, tag string) (*models.Equipment, error) {
	eq, ok := f.equipment[tag]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *eq
	return &copied, nil
}

func (f *fakeAssets) ListEquipment(_ context.Context, category string) ([]models.Equipment, error) {
	var out []models.Equipment
	for _, eq := range f.equipment {
		if category == "" || eq.Category == category {
			out = append(out, *eq)
		}
	}
	return out, nil
}

func (f *fakeAssets) UpdateEquipmentStatus(_ context.Context, tag string, status models.EquipmentStatus) error {
	eq, ok := f.equipment[tag]
	if !ok {
		return models.ErrNotFound
	}
	eq.Status = status
	return nil
}

func (f *fakeAssets) TransferCustody(_ context.Context, tag, fromCustodian, toCustodian string) (*models.Equipment, error) {
	eq, ok := f.equipment[tag]
	if !ok {
		return nil, models.ErrNotFound
	}
	if eq.Custodian != fromCustodian {
		return nil, models.ErrCustodyMismatch
	}
	eq.Custodian = toCustodian
	copied := *eq
	return &copied, nil
}

func (f *fakeAssets) AppendTransfer(_ context.Context, transfer models.CustodyTransfer) error {
	f.transfers = append(f.transfers, transfer)
	return nil
}

func (f *fakeAssets) ListTransfers(_ context.Context, tag string) ([]models.CustodyTransfer, error) {
	var out []models.CustodyTransfer
	for _, tr := range f.transfers {
		if tr.EquipmentTag == tag {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeAssets) AddCertificate(_ context.Context, cert models.Certificate) error {
	f.certs = append(f.certs, cert)
	return nil
}

func (f *fakeAssets) ListCertificates(_ context.Context, tag string) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, cert := range f.certs {
		if cert.EquipmentTag == tag {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (f *fakeAssets) ListExpiringCertificates(_ context.Context, before time.Time) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, cert := range f.certs {
		if !cert.ExpiresAt.After(before) {
			out = append(out, cert)
		}
	}
	return out, nil
}

func pump() models.Equipment {
	return models.Equipment{
		Tag:       "PMP-001",
		Name:      "Transfer Pump",
		Category:  "pumps",
		Custodian: "workshop",
		Status:    models.EquipmentInService,
	}
}

func TestTransfer_UpdatesCustodianAndLogs(t *testing.T) {
	repo := newFakeAssets(pump())
	svc := NewService(repo, nil)
	ctx := context.Background()

	transfer, err := svc.Transfer(ctx, "PMP-001", "workshop", "site-a", "supervisor", "mobilization")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if transfer.FromCustodian != "workshop" || transfer.ToCustodian != "site-a" {
		t.Errorf("transfer = %+v", transfer)
	}

	eq, _ := repo.GetEquipment(ctx, "PMP-001")
	if eq.Custodian != "site-a" {
		t.Errorf("custodian = %s, want site-a", eq.Custodian)
	}

	log, err := svc.Transfers(ctx, "PMP-001")
	if err != nil {
		t.Fatalf("Transfers: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(log))
	}
}

func TestTransfer_StaleHolderConflicts(t *testing.T) {
	repo := newFakeAssets(pump())
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Transfer(ctx, "PMP-001", "workshop", "site-a", "supervisor", ""); err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	// A second transfer naming the original holder no longer matches.
	_, err := svc.Transfer(ctx, "PMP-001", "workshop", "site-b", "supervisor", "")
	if !errors.Is(err, models.ErrCustodyMismatch) {
		t.Fatalf("expected ErrCustodyMismatch, got %v", err)
	}
}

func TestTransfer_ValidatesCustodians(t *testing.T) {
	svc := NewService(newFakeAssets(pump()), nil)

	_, err := svc.Transfer(context.Background(), "PMP-001", "workshop", "workshop", "supervisor", "")
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for identical custodians, got %v", err)
	}
}

func TestAddCertificate_Validation(t *testing.T) {
	svc := NewService(newFakeAssets(pump()), nil)
	ctx := context.Background()

	calibrated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddCertificate(ctx, CertificateInput{
		EquipmentTag:  "PMP-001",
		CertificateNo: "CAL-7",
		CalibratedAt:  calibrated,
		ExpiresAt:     calibrated,
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for non-future expiry, got %v", err)
	}

	cert, err := svc.AddCertificate(ctx, CertificateInput{
		EquipmentTag:  "PMP-001",
		CertificateNo: "CAL-7",
		CalibratedAt:  calibrated,
		ExpiresAt:     calibrated.AddDate(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("AddCertificate: %v", err)
	}
	if cert.EquipmentTag != "PMP-001" {
		t.Errorf("cert = %+v", cert)
	}

	_, err = svc.AddCertificate(ctx, CertificateInput{
		EquipmentTag:  "MISSING",
		CertificateNo: "CAL-8",
		CalibratedAt:  calibrated,
		ExpiresAt:     calibrated.AddDate(1, 0, 0),
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown equipment, got %v", err)
	}
}

func TestRegister_DuplicateTagConflicts(t *testing.T) {
	svc := NewService(newFakeAssets(pump()), nil)

	_, err := svc.Register(context.Background(), RegisterInput{Tag: "PMP-001", Name: "Another Pump"})
	if !errors.Is(err, models.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}
