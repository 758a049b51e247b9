package materials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidianess/assetflow/internal/domain/models"
)

type fakeMaterials struct {
	records map[string]*models.Material
}

func newFakeMaterials(records ...models.Material) *fakeMaterials {
	f := &fakeMaterials{records: make(map[string]*models.Material)}
	for i := range records {
		record := records[i]
		f.records[record.Code] = &record
	}
	return f
}

func (f *fakeMaterials) Create(_ context.Context, m models.Material) error {
	if _, ok := f.records[m.Code]; ok {
		return models.ErrDuplicateCode
	}
	f.records[m.Code] = &m
	return nil
}

func (f *fakeMaterials) GetByCode(_ context.Context, code string) (*models.Material, error) {
	m, ok := f.records[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMaterials) List(_ context.Context, status models.MaterialStatus) ([]models.Material, error) {
	var out []models.Material
	for _, m := range f.records {
		if status == "" || m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaterials) MarkDisposed(_ context.Context, code string, at time.Time, disposalValue float64) (*models.Material, error) {
	m, ok := f.records[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	if m.Status != models.MaterialInStock {
		return nil, models.ErrAlreadyDisposed
	}
	m.Status = models.MaterialDisposed
	m.DisposedAt = &at
	m.DisposalValue = disposalValue
	copied := *m
	return &copied, nil
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func cableDrum(rate float64, received *time.Time) models.Material {
	return models.Material{
		Code:           "CBL-100",
		Description:    "Power cable drum",
		Unit:           "m",
		SourceUnitRate: rate,
		ReceivedDate:   received,
		Status:         models.MaterialInStock,
	}
}

func TestValuate_AgeBands(t *testing.T) {
	svc := NewService(newFakeMaterials(cableDrum(1000, date("2020-01-01"))), nil, nil)
	ctx := context.Background()

	cases := []struct {
		event        string
		wantRate     float64
		wantAtEvent  float64
		wantOriginal float64
	}{
		{"2020-06-01", 500, 2500, 5000},
		{"2023-06-01", 250, 1250, 5000},
	}

	for _, tc := range cases {
		got, err := svc.Valuate(ctx, "CBL-100", 5, *date(tc.event))
		if err != nil {
			t.Fatalf("Valuate(%s): %v", tc.event, err)
		}
		if got.AdjustedRate != tc.wantRate {
			t.Errorf("event %s: adjusted rate = %v, want %v", tc.event, got.AdjustedRate, tc.wantRate)
		}
		if got.ValueAtEvent != tc.wantAtEvent {
			t.Errorf("event %s: value at event = %v, want %v", tc.event, got.ValueAtEvent, tc.wantAtEvent)
		}
		if got.OriginalValue != tc.wantOriginal {
			t.Errorf("event %s: original value = %v, want %v", tc.event, got.OriginalValue, tc.wantOriginal)
		}
	}
}

func TestValuate_MissingReceivedDateKeepsSourceRate(t *testing.T) {
	svc := NewService(newFakeMaterials(cableDrum(870, nil)), nil, nil)

	got, err := svc.Valuate(context.Background(), "CBL-100", 2, *date("2024-01-01"))
	if err != nil {
		t.Fatalf("Valuate: %v", err)
	}
	if got.AdjustedRate != 870 || got.ValueAtEvent != 1740 {
		t.Errorf("got rate=%v value=%v, want 870/1740", got.AdjustedRate, got.ValueAtEvent)
	}
}

func TestValuate_UnknownMaterial(t *testing.T) {
	svc := NewService(newFakeMaterials(), nil, nil)

	_, err := svc.Valuate(context.Background(), "MISSING", 1, time.Now())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDispose_TerminalTransition(t *testing.T) {
	materials := newFakeMaterials(cableDrum(1000, date("2020-01-01")))
	svc := NewService(materials, nil, nil)
	ctx := context.Background()

	disposed, err := svc.Dispose(ctx, "CBL-100", "storekeeper")
	if err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if disposed.Status != models.MaterialDisposed {
		t.Errorf("status = %s, want disposed", disposed.Status)
	}
	if disposed.DisposalValue != 250 {
		t.Errorf("disposal value = %v, want 250 (beyond three years)", disposed.DisposalValue)
	}

	_, err = svc.Dispose(ctx, "CBL-100", "storekeeper")
	if !errors.Is(err, models.ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed on second disposal, got %v", err)
	}
}
