package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository persists checkout results: the transaction rollup and its
// snapshot rows. Snapshots are insert-only.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, txn *models.SaleTransaction) error
	CreateSnapshots(ctx context.Context, snapshots []models.PayoutSnapshot) error
	ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]models.PayoutSnapshot, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a checkout repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.SaleTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) CreateSnapshots(ctx context.Context, snapshots []models.PayoutSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&snapshots).Error
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
