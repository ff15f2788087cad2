package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	cents, err := MinorUnits(499.99)
	require.NoError(t, err)
	assert.Equal(t, int64(49999), cents)

	top, err := MinorUnits(MaxAmount)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000_000), top)

	for _, bad := range []float64{0, -5, math.NaN(), math.Inf(1), MaxAmount + 0.01, 1e300} {
		_, err := MinorUnits(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestCheckoutNames(t *testing.T) {
	c := Checkout{BuyerName: "  Thandi  van der Merwe "}
	assert.Equal(t, "Thandi", c.FirstName())
	assert.Equal(t, "van der Merwe", c.LastName())

	single := Checkout{BuyerName: "Sipho"}
	assert.Equal(t, "Sipho", single.FirstName())
	assert.Equal(t, "Sender", single.LastName())

	assert.Equal(t, "", Checkout{}.FirstName())
}
