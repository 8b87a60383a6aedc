package compplans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository manages persistence for compensation plans, tiers, and the
// franchise split configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePlan(ctx context.Context, plan *models.CompensationPlan) error
	GetPlan(ctx context.Context, planID uuid.UUID) (*models.CompensationPlan, error)
	EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error)
	ListByEmployees(ctx context.Context, employeeIDs []uuid.UUID) ([]models.CompensationPlan, error)
	GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error)
	UpsertSplitConfig(ctx context.Context, cfg *models.FranchiseSplitConfig) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a plan repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePlan(ctx context.Context, plan *models.CompensationPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) GetPlan(ctx context.Context, planID uuid.UUID) (*models.CompensationPlan, error) {
	var plan models.CompensationPlan
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CompensationPlan{}).
		Where("id = ?", planID).
		Update("effective_to", effectiveTo).Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error) {
	return r.ListByEmployees(ctx, []uuid.UUID{employeeID})
}

func (r *repository) ListByEmployees(ctx context.Context, employeeIDs []uuid.UUID) ([]models.CompensationPlan, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var plans []models.CompensationPlan
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		Where("employee_id IN ?", employeeIDs).
		Order("effective_from ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error) {
	var cfg models.FranchiseSplitConfig
	err := r.db.WithContext(ctx).
		First(&cfg, "franchise_id = ?", franchiseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) UpsertSplitConfig(ctx context.Context, cfg *models.FranchiseSplitConfig) error {
	existing, err := r.GetSplitConfig(ctx, cfg.FranchiseID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(cfg).Error
	}
	cfg.ID = existing.ID
	return r.db.WithContext(ctx).
		Model(&models.FranchiseSplitConfig{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"enabled":       cfg.Enabled,
			"royalty_bps":   cfg.RoyaltyBps,
			"marketing_bps": cfg.MarketingBps,
		}).Error
}
