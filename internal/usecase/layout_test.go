package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProportionsSumTo100(t *testing.T) {
	cases := [][]int{
		{1},
		{1, 1},
		{1, 2, 3},
		{5, 1, 1, 1, 1},
		{7, 13, 29},
	}
	for _, ratios := range cases {
		got := Proportions(ratios)
		require.Len(t, got, len(ratios))
		sum := 0.0
		for _, w := range got {
			sum += w
		}
		assert.InDelta(t, 100.0, sum, 1e-9, "ratios %v", ratios)
	}
}

func TestProportionsEmpty(t *testing.T) {
	assert.Empty(t, Proportions(nil))
	assert.Empty(t, Proportions([]int{}))
}

func TestProportionsSingleRatioTakesFullWidth(t *testing.T) {
	got := Proportions([]int{42})
	require.Len(t, got, 1)
	assert.InDelta(t, 100.0, got[0], 1e-9)
}

func TestProportionsProportional(t *testing.T) {
	got := Proportions([]int{1, 3})
	require.Len(t, got, 2)
	assert.InDelta(t, 25.0, got[0], 1e-9)
	assert.InDelta(t, 75.0, got[1], 1e-9)
}

func TestProportionsZeroRatiosSpreadEvenly(t *testing.T) {
	got := Proportions([]int{0, 0, 0, 0})
	require.Len(t, got, 4)
	for _, w := range got {
		assert.False(t, math.IsNaN(w))
		assert.InDelta(t, 25.0, w, 1e-9)
	}
}
