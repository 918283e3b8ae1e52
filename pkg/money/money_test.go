package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"whole dollars", 10.0, 10.0},
		{"already at cent precision", 3.33, 3.33},
		{"rounds down below half", 3.334, 3.33},
		{"rounds up above half", 3.336, 3.34},
		// 0.125 is exactly representable, so this is a true half case.
		{"half rounds up", 0.125, 0.13},
		{"negative half rounds away from zero", -0.125, -0.13},
		{"repeating third", 10.0 / 3.0, 3.33},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Round(tt.in), 1e-9)
		})
	}
}

// Rounding a value that is already at cent precision must be a no-op, even
// after many passes. Running totals are re-rounded at every step, so any
// drift here would accumulate.
func TestRoundIdempotent(t *testing.T) {
	values := []float64{0.01, 0.10, 1.15, 2.675, 99.99, 1234.56}
	for _, v := range values {
		once := Round(v)
		for i := 0; i < 50; i++ {
			assert.Equal(t, once, Round(once))
		}
	}
}

func TestRoundNoDriftOverRunningTotal(t *testing.T) {
	// Summing 1000 rounded cents must land exactly on 10.00.
	var total float64
	for i := 0; i < 1000; i++ {
		total = Round(total + 0.01)
	}
	assert.InDelta(t, 10.00, total, 1e-9)
}

func TestIsZeroAndEqual(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.True(t, IsZero(0.009))
	assert.True(t, IsZero(-0.009))
	assert.False(t, IsZero(0.01))
	assert.False(t, IsZero(-0.02))

	assert.True(t, Equal(5.00, 5.009))
	assert.False(t, Equal(5.00, 5.02))
}
