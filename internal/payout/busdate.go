package payout

import (
	"fmt"
	"time"

	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

// BusinessDate maps a timestamp to the logical operating day it belongs to.
// Transactions before the cutoff hour count toward the previous day, so a
// 1 AM sale lands on the prior evening's books. The returned value is
// midnight UTC of the business day.
func BusinessDate(ts time.Time, cutoffHour int) (time.Time, error) {
	if ts.IsZero() {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "timestamp is required")
	}
	if cutoffHour < 0 || cutoffHour > 23 {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cutoff hour must be 0..23, got %d", cutoffHour))
	}

	if ts.Hour() < cutoffHour {
		ts = ts.AddDate(0, 0, -1)
	}
	year, month, day := ts.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
