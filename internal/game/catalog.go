package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/market-mogul/internal/types"
)

// Catalog is the read-only content table a session draws from: the scenario
// curriculum and the market event pool. It is never mutated after creation.
type Catalog struct {
	scenarios   []*types.Scenario
	events      []*types.MarketEvent
	scenarioIDs map[string]*types.Scenario
	eventIDs    map[string]*types.MarketEvent
}

// NewCatalog validates the content and builds the lookup tables.
func NewCatalog(scenarios []*types.Scenario, events []*types.MarketEvent) (*Catalog, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("catalog has no scenarios")
	}

	c := &Catalog{
		scenarios:   scenarios,
		events:      events,
		scenarioIDs: make(map[string]*types.Scenario, len(scenarios)),
		eventIDs:    make(map[string]*types.MarketEvent, len(events)),
	}

	for _, s := range scenarios {
		if _, exists := c.scenarioIDs[s.ID]; exists {
			return nil, fmt.Errorf("duplicate scenario id: %s", s.ID)
		}
		if len(s.Options) < 2 {
			return nil, fmt.Errorf("scenario %s has fewer than 2 options", s.ID)
		}
		optionIDs := make(map[string]bool, len(s.Options))
		for _, o := range s.Options {
			if optionIDs[o.ID] {
				return nil, fmt.Errorf("scenario %s has duplicate option id: %s", s.ID, o.ID)
			}
			optionIDs[o.ID] = true
		}
		c.scenarioIDs[s.ID] = s
	}

	for _, e := range events {
		if _, exists := c.eventIDs[e.ID]; exists {
			return nil, fmt.Errorf("duplicate event id: %s", e.ID)
		}
		switch e.Kind {
		case types.EventPositive, types.EventNegative, types.EventChaos:
		default:
			return nil, fmt.Errorf("event %s has unknown kind: %s", e.ID, e.Kind)
		}
		c.eventIDs[e.ID] = e
	}

	return c, nil
}

// ScenarioIDs returns the ids of every scenario in catalog order.
func (c *Catalog) ScenarioIDs() []string {
	ids := make([]string, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		ids = append(ids, s.ID)
	}
	return ids
}

// Scenario looks up a scenario by id, or nil if it does not exist.
func (c *Catalog) Scenario(id string) *types.Scenario {
	return c.scenarioIDs[id]
}

// Events returns every market event in catalog order.
func (c *Catalog) Events() []*types.MarketEvent {
	return c.events
}

// ScenarioCount returns the size of the scenario curriculum.
func (c *Catalog) ScenarioCount() int {
	return len(c.scenarios)
}

// CatalogLoader handles loading the content catalog from files
type CatalogLoader struct {
	basePath string
}

// NewCatalogLoader creates a new catalog loader
func NewCatalogLoader(basePath string) *CatalogLoader {
	return &CatalogLoader{
		basePath: basePath,
	}
}

// LoadScenarios loads scenario definitions from file
func (cl *CatalogLoader) LoadScenarios() ([]*types.Scenario, error) {
	path := filepath.Join(cl.basePath, "scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios file: %w", err)
	}

	var scenarios []*types.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios data: %w", err)
	}

	return scenarios, nil
}

// LoadEvents loads market event definitions from file
func (cl *CatalogLoader) LoadEvents() ([]*types.MarketEvent, error) {
	path := filepath.Join(cl.basePath, "events.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []*types.MarketEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events data: %w", err)
	}

	return events, nil
}

// LoadCatalog loads and validates the full content catalog.
func (cl *CatalogLoader) LoadCatalog() (*Catalog, error) {
	scenarios, err := cl.LoadScenarios()
	if err != nil {
		return nil, err
	}

	events, err := cl.LoadEvents()
	if err != nil {
		return nil, err
	}

	return NewCatalog(scenarios, events)
}
