package payout

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// CreateReversals produces the negative snapshots for a refund event.
//
// Amounts come from the original snapshot's stored figures, scaled by the
// refunded fraction at the original's stored rounding policy. The live
// configuration is never consulted: a plan changed since the sale must not
// change what gets clawed back. The snapshots store the rate and rounding
// they were computed with precisely so this function can reproduce the
// original math.
//
// priorReversals are the reversals already on the books for the same
// snapshots; they bound how much is still refundable. A full refund (no
// amount, no quantity) reverses exactly what remains, so original plus all
// reversals nets to zero on every monetary field.
func CreateReversals(originals []LineItemSnapshot, priorReversals []LineItemSnapshot, refunds []RefundLine, occurredAt time.Time, cutoffHour int) ([]LineItemSnapshot, error) {
	if len(refunds) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund has no lines")
	}
	businessDate, err := BusinessDate(occurredAt, cutoffHour)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*LineItemSnapshot, len(originals))
	for i := range originals {
		if originals[i].Entry != enums.PayoutEntryTypeSale {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "only sale snapshots can be refunded").WithDetails(map[string]any{
				"snapshot_id": originals[i].ID,
			})
		}
		byID[originals[i].ID] = &originals[i]
	}

	reversals := make([]LineItemSnapshot, 0, len(refunds))
	for _, refund := range refunds {
		original, ok := byID[refund.SnapshotID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "snapshot not found for refund line").WithDetails(map[string]any{
				"snapshot_id": refund.SnapshotID,
			})
		}
		reversal, err := reverseOne(original, remainingFor(original, priorReversals), refund, businessDate)
		if err != nil {
			return nil, err
		}
		reversals = append(reversals, reversal)
	}
	return reversals, nil
}

// remaining is the portion of an original snapshot not yet clawed back.
type remaining struct {
	Net        money.Amount
	Commission money.Amount
	Owner      money.Amount
	Tip        money.Amount
	Qty        int
}

func remainingFor(original *LineItemSnapshot, priorReversals []LineItemSnapshot) remaining {
	rem := remaining{
		Net:        original.Net,
		Commission: original.Commission,
		Owner:      original.Owner,
		Tip:        original.Tip,
		Qty:        original.Qty,
	}
	for _, prior := range priorReversals {
		if prior.ReversesSnapshotID == nil || *prior.ReversesSnapshotID != original.ID {
			continue
		}
		rem.Net = rem.Net.Add(prior.Net)
		rem.Commission = rem.Commission.Add(prior.Commission)
		rem.Owner = rem.Owner.Add(prior.Owner)
		rem.Tip = rem.Tip.Add(prior.Tip)
		rem.Qty += prior.Qty
	}
	return rem
}

func reverseOne(original *LineItemSnapshot, rem remaining, refund RefundLine, businessDate time.Time) (LineItemSnapshot, error) {
	if refund.NetCents != nil && refund.Qty != nil {
		return LineItemSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "refund line sets both amount and quantity")
	}

	switch {
	case refund.NetCents == nil && refund.Qty == nil:
		// Full refund: negate whatever remains, exactly.
		if rem.Net.IsZero() && rem.Commission.IsZero() && rem.Owner.IsZero() && rem.Tip.IsZero() {
			return LineItemSnapshot{}, overRefund(original, "snapshot already fully refunded")
		}
		return buildReversal(original, businessDate, rem.Qty, rem.Net.Neg(), rem.Tip.Neg(), rem.Commission.Neg(), rem.Owner.Neg()), nil

	case refund.Qty != nil:
		qty := *refund.Qty
		if qty <= 0 {
			return LineItemSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "refund quantity must be positive")
		}
		if qty > rem.Qty {
			return LineItemSnapshot{}, overRefund(original, "refund quantity exceeds remaining quantity")
		}
		if qty == rem.Qty {
			return buildReversal(original, businessDate, qty, rem.Net.Neg(), rem.Tip.Neg(), rem.Commission.Neg(), rem.Owner.Neg()), nil
		}
		fraction, err := money.UnitFraction(qty, original.Qty)
		if err != nil {
			return LineItemSnapshot{}, err
		}
		return partialReversal(original, rem, businessDate, qty, original.Net.ScaleBy(fraction, original.Rounding))

	default:
		net := money.FromCents(*refund.NetCents)
		if net.IsZero() || net.IsNegative() {
			return LineItemSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
		}
		if net.Cmp(rem.Net) > 0 {
			return LineItemSnapshot{}, overRefund(original, "refund amount exceeds remaining net")
		}
		if net.Equal(rem.Net) {
			return buildReversal(original, businessDate, rem.Qty, rem.Net.Neg(), rem.Tip.Neg(), rem.Commission.Neg(), rem.Owner.Neg()), nil
		}
		return partialReversal(original, rem, businessDate, 0, net)
	}
}

// partialReversal scales the original's stored figures to the refunded net.
// The tip scales by the refunded fraction; the commission is re-derived
// from the original's stored rate, rounding, and base, so a 50% refund of a
// 40% line claws back exactly 40% of the refunded base, tip included when
// the original's base included it. The owner share is the refunded net
// minus that, keeping the reversal itself balanced. The scaled figures are
// clamped to what remains so stacked partials can never overshoot.
func partialReversal(original *LineItemSnapshot, rem remaining, businessDate time.Time, qty int, net money.Amount) (LineItemSnapshot, error) {
	fraction, err := money.Fraction(net, original.Net)
	if err != nil {
		return LineItemSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cannot scale a zero-net snapshot by amount")
	}

	tip := original.Tip.ScaleBy(fraction, original.Rounding)
	if tip.Cmp(rem.Tip) > 0 {
		tip = rem.Tip
	}

	base := net
	if original.TipsInBase {
		base = net.Add(tip)
	}
	commission := base.ApplyRate(original.RateBps, original.Rounding)
	if original.RateBps == 0 {
		commission = original.Commission.ScaleBy(fraction, original.Rounding)
	}
	if commission.Cmp(rem.Commission) > 0 {
		commission = rem.Commission
	}
	owner := net.Sub(commission)

	return buildReversal(original, businessDate, qty, net.Neg(), tip.Neg(), commission.Neg(), owner.Neg()), nil
}

func buildReversal(original *LineItemSnapshot, businessDate time.Time, qty int, net, tip, commission, owner money.Amount) LineItemSnapshot {
	originalID := original.ID
	return LineItemSnapshot{
		ID:                 uuid.New(),
		TransactionID:      original.TransactionID,
		LineItemID:         original.LineItemID,
		EmployeeID:         original.EmployeeID,
		Kind:               original.Kind,
		Entry:              enums.PayoutEntryTypeReversal,
		ReversesSnapshotID: &originalID,
		BusinessDate:       businessDate,
		PlanID:             original.PlanID,
		PlanType:           original.PlanType,
		TierID:             original.TierID,
		RateBps:            original.RateBps,
		Rounding:           original.Rounding,
		TipsInBase:         original.TipsInBase,
		Qty:                -qty,
		Net:                net,
		Tip:                tip,
		Commission:         commission,
		Owner:              owner,
	}
}

func overRefund(original *LineItemSnapshot, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]any{
		"snapshot_id": original.ID,
	})
}
