package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	c := Defaults(now)
	assert.Equal(t, Rate{BaseAmount: 20, Divisor: 5000, Rate: 1.2, ETA: "1-4 days"}, c.Economy)
	assert.Equal(t, Rate{BaseAmount: 40, Divisor: 4000, Rate: 1.2, ETA: "1-2 days"}, c.Express)
	assert.Equal(t, Satchel{A4: 90, A3: 110}, c.Satchel)
	assert.Equal(t, now, c.UpdatedAt)
	require.NoError(t, c.Validate())
}

func TestConfig_ApplyMergesSections(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	later := start.Add(time.Hour)

	next, err := Defaults(start).Apply(Patch{
		Express: &RatePatch{BaseAmount: ptr(55.0), ETA: ptr(" next day ")},
		Satchel: &SatchelPatch{A3: ptr(120.0)},
	}, later)
	require.NoError(t, err)
	assert.Equal(t, 55.0, next.Express.BaseAmount)
	assert.Equal(t, 4000.0, next.Express.Divisor)
	assert.Equal(t, "next day", next.Express.ETA)
	assert.Equal(t, Defaults(start).Economy, next.Economy)
	assert.Equal(t, Satchel{A4: 90, A3: 120}, next.Satchel)
	assert.Equal(t, later, next.UpdatedAt)
}

func TestConfig_ApplyRejectsInvalid(t *testing.T) {
	base := Defaults(time.Now())
	cases := map[string]struct {
		patch Patch
		want  error
	}{
		"zero divisor":     {Patch{Economy: &RatePatch{Divisor: ptr(0.0)}}, ErrInvalidDivisor},
		"negative base":    {Patch{Express: &RatePatch{BaseAmount: ptr(-1.0)}}, ErrNegativeAmount},
		"zero rate":        {Patch{Express: &RatePatch{Rate: ptr(0.0)}}, ErrInvalidRate},
		"negative satchel": {Patch{Satchel: &SatchelPatch{A4: ptr(-5.0)}}, ErrNegativeAmount},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := base.Apply(tc.patch, time.Now())
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, base, got)
		})
	}
}

func TestRate_QuoteUsesChargeableWeight(t *testing.T) {
	c := Defaults(time.Now())
	// 40x30x20 / 4000 = 6kg volumetric beats 2kg actual.
	assert.InDelta(t, 40+1.2*6, c.Express.Quote(2, 40, 30, 20), 1e-9)
	assert.InDelta(t, 20+1.2*3, c.Economy.Quote(3, 10, 10, 10), 1e-9)

	r, err := c.RateFor("Express")
	require.NoError(t, err)
	assert.Equal(t, c.Express, r)
	_, err = c.RateFor("overnight")
	require.ErrorIs(t, err, ErrUnknownDelivery)
}
