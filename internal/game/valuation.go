package game

import (
	"math"

	"github.com/user/market-mogul/internal/types"
)

// Valuation computes a team's market valuation from its KPIs.
// Formula: revenue + innovation - (risk * 1.5), floored.
func Valuation(kpis types.KPITriple) int {
	return int(math.Floor(float64(kpis.Revenue+kpis.Innovation) - float64(kpis.Risk)*1.5))
}

// ApplyImpact adds a KPI delta to a triple. Risk is clamped so it never goes
// negative; revenue and innovation are unbounded in both directions.
func ApplyImpact(kpis, impact types.KPITriple) types.KPITriple {
	result := types.KPITriple{
		Revenue:    kpis.Revenue + impact.Revenue,
		Innovation: kpis.Innovation + impact.Innovation,
		Risk:       kpis.Risk + impact.Risk,
	}
	if result.Risk < 0 {
		result.Risk = 0
	}
	return result
}
