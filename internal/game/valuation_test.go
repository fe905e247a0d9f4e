package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/market-mogul/internal/types"
)

func TestValuation(t *testing.T) {
	// Test case 1: Documented starting position
	assert.Equal(t, 135, Valuation(types.KPITriple{Revenue: 100, Innovation: 50, Risk: 10}))

	// Test case 2: Odd risk gets floored, not rounded
	// 130 + 55 - 7.5 = 177.5 -> 177
	assert.Equal(t, 177, Valuation(types.KPITriple{Revenue: 130, Innovation: 55, Risk: 5}))

	// Test case 3: Negative totals floor toward negative infinity
	// 0 + 0 - 1.5 = -1.5 -> -2
	assert.Equal(t, -2, Valuation(types.KPITriple{Revenue: 0, Innovation: 0, Risk: 1}))

	// Test case 4: Deterministic for the same input
	kpis := types.KPITriple{Revenue: 42, Innovation: -17, Risk: 9}
	assert.Equal(t, Valuation(kpis), Valuation(kpis))
}

func TestApplyImpact(t *testing.T) {
	start := types.KPITriple{Revenue: 100, Innovation: 50, Risk: 10}

	// Test case 1: Plain addition
	result := ApplyImpact(start, types.KPITriple{Revenue: 30, Innovation: 5, Risk: -5})
	assert.Equal(t, types.KPITriple{Revenue: 130, Innovation: 55, Risk: 5}, result)

	// Test case 2: Risk is clamped at zero
	result = ApplyImpact(start, types.KPITriple{Risk: -25})
	assert.Equal(t, 0, result.Risk)

	// Test case 3: Risk already at zero stays at zero
	result = ApplyImpact(types.KPITriple{Risk: 0}, types.KPITriple{Risk: -5})
	assert.Equal(t, 0, result.Risk)

	// Test case 4: Revenue and innovation may go negative
	result = ApplyImpact(types.KPITriple{}, types.KPITriple{Revenue: -40, Innovation: -10})
	assert.Equal(t, -40, result.Revenue)
	assert.Equal(t, -10, result.Innovation)
}

func TestRandomizerShuffle(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	// Test case 1: Result is a permutation of the input
	shuffled := NewRandomizer(1).Shuffle(ids)
	assert.Len(t, shuffled, len(ids))
	assert.ElementsMatch(t, ids, shuffled)

	// Test case 2: Input slice is untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, ids)

	// Test case 3: Same seed gives the same permutation
	assert.Equal(t, NewRandomizer(7).Shuffle(ids), NewRandomizer(7).Shuffle(ids))

	// Test case 4: Empty and single-element inputs are fine
	assert.Empty(t, NewRandomizer(1).Shuffle(nil))
	assert.Equal(t, []string{"x"}, NewRandomizer(1).Shuffle([]string{"x"}))
}
