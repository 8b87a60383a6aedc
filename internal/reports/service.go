package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

// DailySummary is a franchise's earned positions for one business date,
// derived entirely by summing the snapshot ledger. Refunds that landed on
// the date show up as negative contributions.
type DailySummary struct {
	FranchiseID     uuid.UUID         `json:"franchise_id"`
	BusinessDate    string            `json:"business_date"`
	Lines           int64             `json:"lines"`
	NetCents        int64             `json:"net_cents"`
	CommissionCents int64             `json:"commission_cents"`
	OwnerCents      int64             `json:"owner_cents"`
	TipCents        int64             `json:"tip_cents"`
	Employees       []EmployeeSummary `json:"employees"`
}

// EmployeeSummary is one employee's line on the daily report.
type EmployeeSummary struct {
	EmployeeID      uuid.UUID `json:"employee_id"`
	Lines           int64     `json:"lines"`
	NetCents        int64     `json:"net_cents"`
	CommissionCents int64     `json:"commission_cents"`
	TipCents        int64     `json:"tip_cents"`
}

// Service produces read-only payout reports.
type Service interface {
	Daily(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) (*DailySummary, error)
}

type service struct {
	repo Repository
}

// NewService wires a reports service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Daily(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) (*DailySummary, error) {
	if franchiseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "franchise id is required")
	}
	if businessDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business date is required")
	}

	totals, err := s.repo.DailyTotals(ctx, franchiseID, businessDate)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.EmployeeTotals(ctx, franchiseID, businessDate)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		FranchiseID:     franchiseID,
		BusinessDate:    businessDate.Format("2006-01-02"),
		Lines:           totals.Lines,
		NetCents:        totals.NetCents,
		CommissionCents: totals.CommissionCents,
		OwnerCents:      totals.OwnerCents,
		TipCents:        totals.TipCents,
		Employees:       make([]EmployeeSummary, 0, len(employees)),
	}
	for _, row := range employees {
		summary.Employees = append(summary.Employees, EmployeeSummary{
			EmployeeID:      row.EmployeeID,
			Lines:           row.Lines,
			NetCents:        row.NetCents,
			CommissionCents: row.CommissionCents,
			TipCents:        row.TipCents,
		})
	}
	return summary, nil
}
