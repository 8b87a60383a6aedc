package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
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

type planProvider interface {
	EnginePlansFor(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]payout.CompensationPlan, error)
	EngineSplitFor(ctx context.Context, franchiseID uuid.UUID) (payout.SplitConfig, error)
}

// Service turns a finalized sale into immutable payout snapshots. The
// effective configuration is resolved once, before any line is computed,
// and every snapshot of the transaction is persisted in one database
// transaction: either the whole payout lands or none of it does.
type Service interface {
	Process(ctx context.Context, input ProcessInput) (*Result, error)
}

// ProcessInput is one finalized sale ready for payout calculation.
type ProcessInput struct {
	FranchiseID uuid.UUID
	OccurredAt  time.Time
	Lines       []LineInput
}

// LineInput is one sold unit of the sale.
type LineInput struct {
	LineItemID             uuid.UUID
	Kind                   enums.LineItemKind
	EmployeeID             uuid.UUID
	UnitPriceCents         int64
	Qty                    int
	OverridePriceCents     *int64
	DiscountCents          int64
	TipCents               int64
	QualifyingRevenueCents int64
}

// Result is the persisted outcome of a processed sale.
type Result struct {
	Transaction models.SaleTransaction
	Snapshots   []models.PayoutSnapshot
	Payout      payout.TransactionPayout
}

type service struct {
	tx        txRunner
	repo      Repository
	plans     planProvider
	payoutCfg config.PayoutConfig
	metrics   *metrics.PayoutMetrics
	logg      *logger.Logger
}

// NewService builds the checkout payout service.
func NewService(
	tx txRunner,
	repo Repository,
	plans planProvider,
	payoutCfg config.PayoutConfig,
	payoutMetrics *metrics.PayoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if plans == nil {
		return nil, fmt.Errorf("plan provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		plans:     plans,
		payoutCfg: payoutCfg,
		metrics:   payoutMetrics,
		logg:      logg,
	}, nil
}

func (s *service) Process(ctx context.Context, input ProcessInput) (*Result, error) {
	if err := validateProcessInput(input); err != nil {
		s.metrics.IncFailure("validation")
		return nil, err
	}

	transactionID := uuid.New()
	ctx = s.logg.WithTransactionID(ctx, transactionID.String())
	ctx = s.logg.WithFranchiseID(ctx, input.FranchiseID.String())

	engineCfg, err := s.resolveConfig(ctx, input)
	if err != nil {
		s.metrics.IncFailure("config")
		return nil, err
	}

	snapshots := make([]payout.LineItemSnapshot, 0, len(input.Lines))
	for _, line := range input.Lines {
		snap, err := payout.CalculateLineSnapshot(transactionID, input.OccurredAt, engineLine(line), engineCfg)
		if err != nil {
			if errors.Is(err, payout.ErrOverlappingPlans) {
				s.metrics.IncFailure("config_integrity")
				return nil, pkgerrors.Wrap(pkgerrors.CodeConfigIntegrity, err, "employee has overlapping compensation plans").WithDetails(map[string]any{
					"employee_id": line.EmployeeID,
				})
			}
			s.metrics.IncFailure("validation")
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	// The aggregator validates every snapshot against the commission
	// invariant; an unbalanced line aborts before anything is persisted.
	agg, err := payout.AggregatePayout(snapshots)
	if err != nil {
		s.metrics.IncViolation("commission_balance")
		s.logg.Error(ctx, "refusing to persist unbalanced snapshot", err)
		return nil, err
	}
	split, err := s.plans.EngineSplitFor(ctx, input.FranchiseID)
	if err != nil {
		return nil, err
	}
	agg, err = payout.ApplySplit(agg, split, engineCfg)
	if err != nil {
		s.metrics.IncFailure("config_integrity")
		return nil, err
	}

	businessDate := snapshots[0].BusinessDate
	txnModel := transactionToModel(transactionID, input.FranchiseID, input.OccurredAt, businessDate, agg)
	snapModels := make([]models.PayoutSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		snapModels = append(snapModels, snapshotToModel(input.FranchiseID, snap))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateTransaction(ctx, &txnModel); err != nil {
			return err
		}
		return repo.CreateSnapshots(ctx, snapModels)
	})
	if err != nil {
		s.metrics.IncFailure("persistence")
		return nil, err
	}

	s.metrics.IncSnapshots("sale", len(snapModels))
	s.logg.Info(ctx, fmt.Sprintf("persisted %d payout snapshots", len(snapModels)))

	return &Result{
		Transaction: txnModel,
		Snapshots:   snapModels,
		Payout:      agg,
	}, nil
}

// resolveConfig freezes the effective payout configuration for the whole
// transaction: deployment defaults plus every plan of every employee on
// the sale. Later plan edits cannot change what this sale pays out.
func (s *service) resolveConfig(ctx context.Context, input ProcessInput) (payout.Config, error) {
	employeeIDs := make([]uuid.UUID, 0, len(input.Lines))
	seen := make(map[uuid.UUID]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if _, ok := seen[line.EmployeeID]; ok {
			continue
		}
		seen[line.EmployeeID] = struct{}{}
		employeeIDs = append(employeeIDs, line.EmployeeID)
	}

	plans, err := s.plans.EnginePlansFor(ctx, employeeIDs)
	if err != nil {
		return payout.Config{}, err
	}

	return payout.Config{
		CutoffHour:           s.payoutCfg.CutoffHour,
		Rounding:             s.payoutCfg.RoundingMode(),
		ServiceRateBps:       s.payoutCfg.ServiceRateBps,
		ProductRateBps:       s.payoutCfg.ProductRateBps,
		TipsAffectCommission: s.payoutCfg.TipsAffectCommission,
		PlansByEmployee:      plans,
	}, nil
}

func validateProcessInput(input ProcessInput) error {
	var errs error
	if input.FranchiseID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("franchise id is required"))
	}
	if input.OccurredAt.IsZero() {
		errs = multierr.Append(errs, fmt.Errorf("occurred-at timestamp is required"))
	}
	if len(input.Lines) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one line item is required"))
	}
	for i, line := range input.Lines {
		if line.LineItemID == uuid.Nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: line item id is required", i))
		}
		if line.EmployeeID == uuid.Nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: employee id is required", i))
		}
		if !line.Kind.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("line %d: invalid kind %q", i, line.Kind))
		}
		if line.Qty <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("line %d: quantity must be positive", i))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid checkout input")
	}
	return nil
}

func engineLine(line LineInput) payout.LineItemInput {
	return payout.LineItemInput{
		LineItemID:             line.LineItemID,
		Kind:                   line.Kind,
		EmployeeID:             line.EmployeeID,
		UnitPriceCents:         line.UnitPriceCents,
		Qty:                    line.Qty,
		OverridePriceCents:     line.OverridePriceCents,
		DiscountCents:          line.DiscountCents,
		TipCents:               line.TipCents,
		QualifyingRevenueCents: line.QualifyingRevenueCents,
	}
}
