package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const lateFee = int64(1000)

func TestEvaluateCancellation_OutsideWindow(t *testing.T) {
	priv := annualPrivileges() // 12h window
	start := testNow.Add(48 * time.Hour)

	d := EvaluateCancellation(start, testNow, priv, lateFee)

	assert.True(t, d.Allowed)
	assert.True(t, d.RefundEligible)
	assert.Equal(t, int64(0), d.FeeCents)
}

func TestEvaluateCancellation_LateWithFee(t *testing.T) {
	priv := dayPassPrivileges() // 48h window, no free cancellation
	start := testNow.Add(10 * time.Hour)

	d := EvaluateCancellation(start, testNow, priv, lateFee)

	assert.True(t, d.Allowed) // members can always cancel
	assert.False(t, d.RefundEligible)
	assert.Equal(t, lateFee, d.FeeCents)
}

func TestEvaluateCancellation_LateFreeForWaivedTier(t *testing.T) {
	priv := annualPrivileges() // allowFreeCancellation
	start := testNow.Add(2 * time.Hour)

	d := EvaluateCancellation(start, testNow, priv, lateFee)

	assert.True(t, d.Allowed)
	assert.False(t, d.RefundEligible)
	assert.Equal(t, int64(0), d.FeeCents)
}

func TestEvaluateCancellation_WindowBoundary(t *testing.T) {
	priv := dayPassPrivileges() // 48h window

	// Exactly at the window is still refund-eligible.
	d := EvaluateCancellation(testNow.Add(48*time.Hour), testNow, priv, lateFee)
	assert.True(t, d.RefundEligible)

	d = EvaluateCancellation(testNow.Add(48*time.Hour-time.Minute), testNow, priv, lateFee)
	assert.False(t, d.RefundEligible)
}

func TestEvaluateCancellation_Idempotent(t *testing.T) {
	priv := dayPassPrivileges()
	start := testNow.Add(5 * time.Hour)

	first := EvaluateCancellation(start, testNow, priv, lateFee)
	second := EvaluateCancellation(start, testNow, priv, lateFee)

	assert.Equal(t, first, second)
}
