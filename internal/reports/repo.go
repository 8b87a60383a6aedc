package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyTotalsRow is the franchise-level sum over one business date.
// Reversals carry negative amounts, so the sums are post-refund positions.
type DailyTotalsRow struct {
	Lines           int64
	NetCents        int64
	CommissionCents int64
	OwnerCents      int64
	TipCents        int64
}

// EmployeeTotalsRow is one employee's earned position for a business date.
type EmployeeTotalsRow struct {
	EmployeeID      uuid.UUID
	Lines           int64
	NetCents        int64
	CommissionCents int64
	TipCents        int64
}

// Repository aggregates the snapshot ledger for reporting. Read-only.
type Repository interface {
	DailyTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) (*DailyTotalsRow, error)
	EmployeeTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) ([]EmployeeTotalsRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DailyTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) (*DailyTotalsRow, error) {
	var row DailyTotalsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS lines,
			COALESCE(SUM(net_cents), 0) AS net_cents,
			COALESCE(SUM(commission_cents), 0) AS commission_cents,
			COALESCE(SUM(owner_cents), 0) AS owner_cents,
			COALESCE(SUM(tip_cents), 0) AS tip_cents
		FROM payout_snapshots
		WHERE franchise_id = ? AND business_date = ?`,
		franchiseID, businessDate.Format("2006-01-02"),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) EmployeeTotals(ctx context.Context, franchiseID uuid.UUID, businessDate time.Time) ([]EmployeeTotalsRow, error) {
	var rows []EmployeeTotalsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			employee_id,
			COUNT(*) AS lines,
			COALESCE(SUM(net_cents), 0) AS net_cents,
			COALESCE(SUM(commission_cents), 0) AS commission_cents,
			COALESCE(SUM(tip_cents), 0) AS tip_cents
		FROM payout_snapshots
		WHERE franchise_id = ? AND business_date = ?
		GROUP BY employee_id
		ORDER BY commission_cents DESC`,
		franchiseID, businessDate.Format("2006-01-02"),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
