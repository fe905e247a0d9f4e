package types

// Phase represents the current stage of a game session.
type Phase string

const (
	PhaseSetup       Phase = "SETUP"
	PhaseIntro       Phase = "INTRO"
	PhasePlaying     Phase = "PLAYING"
	PhaseFeedback    Phase = "FEEDBACK"
	PhaseMarketEvent Phase = "MARKET_EVENT"
	PhaseGameOver    Phase = "GAME_OVER"
)

// EventKind classifies a market event by its overall effect.
type EventKind string

const (
	EventPositive EventKind = "POSITIVE"
	EventNegative EventKind = "NEGATIVE"
	EventChaos    EventKind = "CHAOS"
)

// KPITriple holds a team's operating metrics. Revenue and innovation are
// unbounded; risk never drops below zero.
type KPITriple struct {
	Revenue    int `json:"revenue"`
	Innovation int `json:"innovation"`
	Risk       int `json:"risk"`
}

// HistoryEntry records one score change for a team, either from a scenario
// choice or from a market event.
type HistoryEntry struct {
	Label string `json:"label"`
	Delta int    `json:"delta"`
}

// Team represents one competing team in a session.
type Team struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	KPIs     KPITriple      `json:"kpis"`
	Score    int            `json:"score"`
	ColorTag string         `json:"color_tag"`
	History  []HistoryEntry `json:"history"`
}

// ScenarioOption is one choice within a scenario.
type ScenarioOption struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Impact   KPITriple `json:"impact"`
	Feedback string    `json:"feedback"`
}

// Scenario is a multiple-choice decision prompt from the content catalog.
type Scenario struct {
	ID      string           `json:"id"`
	Unit    string           `json:"unit"`
	Title   string           `json:"title"`
	Prompt  string           `json:"prompt"`
	Options []ScenarioOption `json:"options"`
	IconTag string           `json:"icon_tag"`
}

// MarketEvent is a global occurrence that hits every team at once.
type MarketEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Explanation string    `json:"explanation"`
	Impact      KPITriple `json:"impact"`
	Kind        EventKind `json:"kind"`
}

// Feedback describes the outcome of the most recent scenario choice.
type Feedback struct {
	Impact      KPITriple `json:"impact"`
	TotalChange int       `json:"total_change"`
	Text        string    `json:"text"`
	Positive    bool      `json:"positive"`
}

// SessionState is the full mutable state of one game session. The session
// owns it exclusively; callers only ever see snapshots.
type SessionState struct {
	SessionID          string       `json:"session_id"`
	Phase              Phase        `json:"phase"`
	Teams              []Team       `json:"teams"`
	CurrentTeamIndex   int          `json:"current_team_index"`
	CurrentScenario    *Scenario    `json:"current_scenario,omitempty"`
	ScenariosPlayed    []string     `json:"scenarios_played"`
	ScenarioOrder      []string     `json:"scenario_order"`
	RoundsConfigured   int          `json:"rounds_configured"`
	CurrentRound       int          `json:"current_round"`
	LastFeedback       *Feedback    `json:"last_feedback,omitempty"`
	CurrentMarketEvent *MarketEvent `json:"current_market_event,omitempty"`
	UsedEventIDs       []string     `json:"used_event_ids"`
	TurnsSinceEvent    int          `json:"turns_since_event"`
	Standings          []Team       `json:"standings,omitempty"`
}
