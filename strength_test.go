package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrengthOrdering(t *testing.T) {
	order := []Strength{Weak, Medium, Strong, Required}
	for i := 0; i < len(order)-1; i++ {
		require.Less(t, order[i].Compare(order[i+1]), 0, "%v should compare less than %v", order[i], order[i+1])
		require.Greater(t, order[i+1].Compare(order[i]), 0, "%v should compare greater than %v", order[i+1], order[i])
	}
}

func TestStrengthRequiredDominatesAnyWeight(t *testing.T) {
	huge := NewStrength(1e9, 1e9, 1e9)
	require.Greater(t, Required.Compare(huge), 0, "Required must dominate even an enormous non-required strength")
}

func TestStrengthAddSubtractRoundTrip(t *testing.T) {
	a := NewStrength(1, 2, 3)
	b := NewStrength(0.5, 0.25, 0.125)
	sum := a.Add(b)
	back := sum.Subtract(b)
	require.Zero(t, back.Compare(a), "(a+b)-b = %+v, want %+v", back, a)
}

func TestStrengthWeightedOrderingHoldsAcrossLevels(t *testing.T) {
	// A single unit at a stronger level must outweigh any number of units
	// at a weaker level, for weights in the range the solver expects
	// clients to use.
	require.Greater(t, Strong.Weighted(1), Medium.Weighted(999), "one strong unit should outweigh 999 medium units")
	require.Greater(t, Medium.Weighted(1), Weak.Weighted(999), "one medium unit should outweigh 999 weak units")
}
