package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/market-mogul/internal/types"
)

func TestNewCatalogValidation(t *testing.T) {
	// Test case 1: An empty curriculum is rejected
	_, err := NewCatalog(nil, testEvents(1))
	assert.Error(t, err)

	// Test case 2: Duplicate scenario ids are rejected
	scenarios := testScenarios(2)
	scenarios[1].ID = scenarios[0].ID
	_, err = NewCatalog(scenarios, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scenario id")

	// Test case 3: A scenario needs at least two options
	scenarios = testScenarios(1)
	scenarios[0].Options = scenarios[0].Options[:1]
	_, err = NewCatalog(scenarios, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fewer than 2 options")

	// Test case 4: Duplicate option ids within a scenario are rejected
	scenarios = testScenarios(1)
	scenarios[0].Options[1].ID = scenarios[0].Options[0].ID
	_, err = NewCatalog(scenarios, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate option id")

	// Test case 5: Duplicate event ids are rejected
	events := testEvents(2)
	events[1].ID = events[0].ID
	_, err = NewCatalog(testScenarios(1), events)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate event id")

	// Test case 6: An event kind outside the known set is rejected
	events = testEvents(1)
	events[0].Kind = "WEIRD"
	_, err = NewCatalog(testScenarios(1), events)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")

	// Test case 7: A valid catalog exposes its content in order
	catalog, err := NewCatalog(testScenarios(3), testEvents(2))
	assert.NoError(t, err)
	assert.Equal(t, 3, catalog.ScenarioCount())
	assert.Equal(t, []string{"scenario-1", "scenario-2", "scenario-3"}, catalog.ScenarioIDs())
	assert.Len(t, catalog.Events(), 2)
	assert.NotNil(t, catalog.Scenario("scenario-2"))
	assert.Nil(t, catalog.Scenario("scenario-99"))
}

func TestCatalogLoader(t *testing.T) {
	dir := t.TempDir()

	writeJSON := func(name string, v interface{}) {
		data, err := json.MarshalIndent(v, "", "  ")
		assert.NoError(t, err)
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	// Test case 1: Missing files produce an error
	loader := NewCatalogLoader(dir)
	_, err := loader.LoadCatalog()
	assert.Error(t, err)

	// Test case 2: A full catalog round-trips through the files
	writeJSON("scenarios.json", testScenarios(4))
	writeJSON("events.json", testEvents(3))

	catalog, err := loader.LoadCatalog()
	assert.NoError(t, err)
	assert.Equal(t, 4, catalog.ScenarioCount())
	assert.Len(t, catalog.Events(), 3)

	loaded := catalog.Scenario("scenario-1")
	assert.NotNil(t, loaded)
	assert.Equal(t, "Strategy", loaded.Unit)
	assert.Len(t, loaded.Options, 2)
	assert.Equal(t, types.KPITriple{Revenue: 30, Innovation: 5, Risk: -5}, loaded.Options[0].Impact)

	// Test case 3: Invalid content fails validation at load time
	bad := testScenarios(2)
	bad[1].ID = bad[0].ID
	writeJSON("scenarios.json", bad)
	_, err = loader.LoadCatalog()
	assert.Error(t, err)

	// Test case 4: Malformed JSON produces a parse error
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios.json"), []byte("{not json"), 0644))
	_, err = loader.LoadScenarios()
	assert.Error(t, err)
}

func TestResultsStorage(t *testing.T) {
	storage := NewResultsStorage(filepath.Join(t.TempDir(), "results"))

	result := &GameResult{
		SessionID:        "session-abc",
		FinishedAt:       time.Now(),
		RoundsPlayed:     3,
		RoundsConfigured: 3,
		ScenariosPlayed:  12,
		Standings: []types.Team{
			{ID: 1, Name: "Beta", Score: 210},
			{ID: 0, Name: "Alpha", Score: 150},
		},
	}

	// Test case 1: Saving creates the directory and the report file
	assert.NoError(t, storage.SaveResult(result))

	// Test case 2: The report round-trips intact
	loaded, err := storage.LoadResult("session-abc")
	assert.NoError(t, err)
	assert.Equal(t, result.SessionID, loaded.SessionID)
	assert.Equal(t, result.RoundsPlayed, loaded.RoundsPlayed)
	assert.Equal(t, result.ScenariosPlayed, loaded.ScenariosPlayed)
	assert.Len(t, loaded.Standings, 2)
	assert.Equal(t, "Beta", loaded.Standings[0].Name)
	assert.Equal(t, 210, loaded.Standings[0].Score)

	// Test case 3: Loading an unknown session fails
	_, err = storage.LoadResult("no-such-session")
	assert.Error(t, err)
}

func TestOptionAdvisor(t *testing.T) {
	advisor := NewOptionAdvisor(NewRandomizer(7))

	team := types.Team{
		KPIs:  types.KPITriple{Revenue: 100, Innovation: 50, Risk: 10},
		Score: 135,
	}

	// Test case 1: No scenario means no pick
	assert.Nil(t, advisor.ChooseOption(team, nil))

	// Test case 2: With a wide margin the better option always wins; the
	// jitter tops out below the gap between +42 and -25.
	scenario := testScenarios(1)[0]
	for i := 0; i < 20; i++ {
		picked := advisor.ChooseOption(team, scenario)
		assert.NotNil(t, picked)
		assert.Equal(t, "opt1", picked.ID)
	}
}
