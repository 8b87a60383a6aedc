package refunds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reverses persisted payout snapshots. Reversals are appended next
// to the originals; the original rows are read, never touched. Amounts are
// derived from the frozen figures on the original snapshots, so plan edits
// made after the sale have no effect on what a refund claws back.
type Service interface {
	Process(ctx context.Context, input RefundInput) (*Result, error)
}

// RefundInput requests the reversal of a transaction's snapshots. An empty
// Lines slice refunds every sale line in full.
type RefundInput struct {
	TransactionID uuid.UUID
	OccurredAt    time.Time
	Lines         []RefundLineInput
}

// RefundLineInput targets one snapshot. At most one of NetCents or Qty may
// be set; neither means a full refund of that line.
type RefundLineInput struct {
	SnapshotID uuid.UUID
	NetCents   *int64
	Qty        *int
}

// Result is the persisted outcome of a refund.
type Result struct {
	Reversals []models.PayoutSnapshot
	Payout    payout.TransactionPayout
}

type service struct {
	tx        txRunner
	repo      Repository
	payoutCfg config.PayoutConfig
	metrics   *metrics.PayoutMetrics
	logg      *logger.Logger
}

// NewService builds the refund service.
func NewService(
	tx txRunner,
	repo Repository,
	payoutCfg config.PayoutConfig,
	payoutMetrics *metrics.PayoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("refund repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		payoutCfg: payoutCfg,
		metrics:   payoutMetrics,
		logg:      logg,
	}, nil
}

func (s *service) Process(ctx context.Context, input RefundInput) (*Result, error) {
	if input.TransactionID == uuid.Nil {
		s.metrics.IncFailure("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if input.OccurredAt.IsZero() {
		s.metrics.IncFailure("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "occurred-at timestamp is required")
	}

	ctx = s.logg.WithTransactionID(ctx, input.TransactionID.String())

	rows, err := s.repo.ListByTransactionID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	var (
		originals      []payout.LineItemSnapshot
		priorReversals []payout.LineItemSnapshot
		franchiseID    uuid.UUID
	)
	for _, row := range rows {
		franchiseID = row.FranchiseID
		switch row.Entry {
		case enums.PayoutEntryTypeReversal:
			priorReversals = append(priorReversals, toEngineSnapshot(row))
		default:
			originals = append(originals, toEngineSnapshot(row))
		}
	}
	if len(originals) == 0 {
		s.metrics.IncFailure("not_found")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payout snapshots for transaction")
	}

	refundLines := make([]payout.RefundLine, 0, len(input.Lines))
	wholeTransaction := len(input.Lines) == 0
	if wholeTransaction {
		for _, original := range originals {
			refundLines = append(refundLines, payout.RefundLine{SnapshotID: original.ID})
		}
	} else {
		for _, line := range input.Lines {
			refundLines = append(refundLines, payout.RefundLine{
				SnapshotID: line.SnapshotID,
				NetCents:   line.NetCents,
				Qty:        line.Qty,
			})
		}
	}

	reversals, err := payout.CreateReversals(originals, priorReversals, refundLines, input.OccurredAt, s.payoutCfg.CutoffHour)
	if err != nil {
		s.metrics.IncFailure("validation")
		return nil, err
	}

	// Aggregation doubles as validation: every reversal is checked against
	// the commission invariant before anything is persisted.
	agg, err := payout.AggregatePayout(reversals)
	if err != nil {
		s.metrics.IncViolation("commission_balance")
		s.logg.Error(ctx, "refusing to persist unbalanced reversal", err)
		return nil, err
	}
	if wholeTransaction {
		if err := payout.ValidateRefundNetsToZero(originals, append(priorReversals, reversals...)); err != nil {
			s.metrics.IncViolation("refund_zero")
			s.logg.Error(ctx, "full refund does not net to zero", err)
			return nil, err
		}
	}

	reversalModels := make([]models.PayoutSnapshot, 0, len(reversals))
	for _, reversal := range reversals {
		reversalModels = append(reversalModels, toModelSnapshot(franchiseID, reversal))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateSnapshots(ctx, reversalModels)
	})
	if err != nil {
		s.metrics.IncFailure("persistence")
		return nil, err
	}

	s.metrics.IncSnapshots("reversal", len(reversalModels))
	s.metrics.IncReversals(refundShape(input), len(reversalModels))
	s.logg.Info(ctx, fmt.Sprintf("persisted %d reversal snapshots", len(reversalModels)))

	return &Result{
		Reversals: reversalModels,
		Payout:    agg,
	}, nil
}

func refundShape(input RefundInput) string {
	if len(input.Lines) == 0 {
		return "full"
	}
	for _, line := range input.Lines {
		if line.NetCents != nil {
			return "partial_amount"
		}
		if line.Qty != nil {
			return "partial_qty"
		}
	}
	return "full_lines"
}
