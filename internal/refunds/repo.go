package refunds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository reads the snapshots a refund targets and appends the reversal
// rows. Original rows are never updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]models.PayoutSnapshot, error)
	CreateSnapshots(ctx context.Context, snapshots []models.PayoutSnapshot) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a refund repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]models.PayoutSnapshot, error) {
	var snapshots []models.PayoutSnapshot
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *repository) CreateSnapshots(ctx context.Context, snapshots []models.PayoutSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&snapshots).Error
}
