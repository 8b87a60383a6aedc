package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	totals    *DailyTotalsRow
	employees []EmployeeTotalsRow
	err       error
}

func (f *fakeRepository) DailyTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) (*DailyTotalsRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.totals, nil
}

func (f *fakeRepository) EmployeeTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) ([]EmployeeTotalsRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.employees, nil
}

func TestDaily(t *testing.T) {
	employeeID := uuid.New()
	repo := &fakeRepository{
		totals: &DailyTotalsRow{Lines: 3, NetCents: 16_500, CommissionCents: 6_000, OwnerCents: 10_500, TipCents: 2_500},
		employees: []EmployeeTotalsRow{
			{EmployeeID: employeeID, Lines: 2, NetCents: 14_000, CommissionCents: 6_000, TipCents: 2_000},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	summary, err := svc.Daily(context.Background(), uuid.New(), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Daily error: %v", err)
	}

	if summary.BusinessDate != "2026-02-15" {
		t.Fatalf("unexpected business date %q", summary.BusinessDate)
	}
	if summary.CommissionCents != 6_000 || summary.OwnerCents != 10_500 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.Employees) != 1 || summary.Employees[0].EmployeeID != employeeID {
		t.Fatalf("unexpected employee rows: %+v", summary.Employees)
	}
}

func TestDailyValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{totals: &DailyTotalsRow{}})

	if _, err := svc.Daily(context.Background(), uuid.Nil, time.Now()); err == nil {
		t.Fatal("expected missing franchise id to fail")
	}
	if _, err := svc.Daily(context.Background(), uuid.New(), time.Time{}); err == nil {
		t.Fatal("expected missing date to fail")
	}
}

func TestDailyRepoError(t *testing.T) {
	expectedErr := errors.New("boom")
	svc, _ := NewService(&fakeRepository{err: expectedErr})

	if _, err := svc.Daily(context.Background(), uuid.New(), time.Now()); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
