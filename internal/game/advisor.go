package game

import (
	"github.com/user/market-mogul/internal/types"
)

// OptionAdvisor provides automatic decision making for absent teams. It
// favors the option with the best projected valuation change, with a little
// randomness so autoplayed teams are not fully predictable.
type OptionAdvisor struct {
	rng *Randomizer
}

// NewOptionAdvisor creates a new option advisor
func NewOptionAdvisor(rng *Randomizer) *OptionAdvisor {
	return &OptionAdvisor{
		rng: rng,
	}
}

// ChooseOption selects an option for a team based on the projected score change
func (oa *OptionAdvisor) ChooseOption(team types.Team, scenario *types.Scenario) *types.ScenarioOption {
	if scenario == nil || len(scenario.Options) == 0 {
		return nil
	}

	highestScore := 0
	var bestOption *types.ScenarioOption
	for i := range scenario.Options {
		option := &scenario.Options[i]

		projected := Valuation(ApplyImpact(team.KPIs, option.Impact))
		score := projected - team.Score

		// Add some randomness
		score += oa.rng.Intn(10)

		if bestOption == nil || score > highestScore {
			highestScore = score
			bestOption = option
		}
	}

	return bestOption
}
