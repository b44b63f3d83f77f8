package engine

import (
	"time"

	"github.com/clubcourt/courtbook/internal/domain"
)

// CancellationDecision is the economics of cancelling one booking at one
// instant. Members may always cancel; inside the tier's window the refund is
// forfeited and a late fee applies unless the tier waives it.
type CancellationDecision struct {
	Allowed        bool
	RefundEligible bool
	FeeCents       int64
}

// EvaluateCancellation is pure and idempotent: same booking start, same
// "now", same answer. The caller performs the confirmed->cancelled
// transition exactly once.
func EvaluateCancellation(bookingStart, now time.Time, priv domain.TierPrivileges, lateFeeCents int64) CancellationDecision {
	hoursUntilStart := bookingStart.Sub(now).Hours()
	if hoursUntilStart >= float64(priv.CancellationWindowHours) {
		return CancellationDecision{Allowed: true, RefundEligible: true}
	}
	fee := lateFeeCents
	if priv.AllowFreeCancellation {
		fee = 0
	}
	return CancellationDecision{Allowed: true, FeeCents: fee}
}
