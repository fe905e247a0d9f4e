package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/market-mogul/config"
	"github.com/user/market-mogul/internal/interfaces"
	"github.com/user/market-mogul/internal/types"
	"go.uber.org/zap"
)

// eventLabelPrefix marks market event entries in a team's history so they
// can be told apart from scenario entries.
const eventLabelPrefix = "Market Event: "

// teamColorTags are assigned to teams in registration order.
var teamColorTags = []string{"Blue Corp", "Red Inc", "Green Ltd", "Purple Co"}

// Session owns the state of one game and exposes the transition operations.
// All mutation happens behind the state lock; readers only ever see
// fully-applied transitions via State().
type Session struct {
	state     *types.SessionState
	stateLock sync.RWMutex
	catalog   *Catalog
	config    config.GameConfig
	Logger    *zap.Logger
	rng       *Randomizer
	advisor   *OptionAdvisor
	storage   *ResultsStorage

	introTimer *time.Timer
}

// Ensure Session satisfies the interfaces.SessionController interface
var _ interfaces.SessionController = (*Session)(nil)

// NewSession creates a session in its SETUP default. A nil rng means a
// time-seeded one is used.
func NewSession(cfg config.GameConfig, catalog *Catalog, rng *Randomizer) *Session {
	if rng == nil {
		rng = NewRandomizer(0)
	}

	return &Session{
		state:   setupState(),
		catalog: catalog,
		config:  cfg,
		Logger:  zap.NewNop(), // Will be set by the server
		rng:     rng,
		advisor: NewOptionAdvisor(rng),
	}
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(logger *zap.Logger) {
	s.Logger = logger
}

// SetResultsStorage enables writing a match report when a game ends.
func (s *Session) SetResultsStorage(storage *ResultsStorage) {
	s.storage = storage
}

// setupState returns the SETUP defaults every session starts from and
// returns to on reset.
func setupState() *types.SessionState {
	return &types.SessionState{
		Phase:           types.PhaseSetup,
		Teams:           []types.Team{},
		ScenariosPlayed: []string{},
		ScenarioOrder:   []string{},
		UsedEventIDs:    []string{},
		CurrentRound:    1,
	}
}

// StartGame constructs the teams, shuffles the scenario deck and moves the
// session into INTRO. The first turn is scheduled after the configured intro
// delay. Team count must be exactly 2 or 4.
func (s *Session) StartGame(teamNames []string) error {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	if len(teamNames) != 2 && len(teamNames) != 4 {
		return errors.New("team count must be 2 or 4")
	}

	s.cancelIntroTimer()

	startKPIs := types.KPITriple{
		Revenue:    s.config.StartingRevenue,
		Innovation: s.config.StartingInnovation,
		Risk:       s.config.StartingRisk,
	}

	teams := make([]types.Team, 0, len(teamNames))
	for i, name := range teamNames {
		teams = append(teams, types.Team{
			ID:       i,
			Name:     name,
			KPIs:     startKPIs,
			Score:    Valuation(startKPIs),
			ColorTag: teamColorTags[i%len(teamColorTags)],
			History:  []types.HistoryEntry{},
		})
	}

	// Rounds scale inversely with team count to keep total turns constant.
	rounds := s.config.RoundsTwoTeams
	if len(teamNames) == 4 {
		rounds = s.config.RoundsFourTeams
	}

	state := setupState()
	state.SessionID = uuid.New().String()
	state.Phase = types.PhaseIntro
	state.Teams = teams
	state.ScenarioOrder = s.rng.Shuffle(s.catalog.ScenarioIDs())
	state.RoundsConfigured = rounds
	s.state = state

	s.Logger.Info("game started",
		zap.String("session_id", state.SessionID),
		zap.Int("teams", len(teams)),
		zap.Int("rounds_configured", rounds),
		zap.Int("deck_size", len(state.ScenarioOrder)))

	delay := time.Duration(s.config.IntroDelayMs) * time.Millisecond
	s.introTimer = time.AfterFunc(delay, s.beginFirstTurn)

	return nil
}

// beginFirstTurn moves the session out of INTRO into turn 0. Firing twice or
// after a reset is harmless: anything but INTRO is left untouched.
func (s *Session) beginFirstTurn() {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	if s.state.Phase != types.PhaseIntro {
		return
	}
	s.advanceTurn(0)
}

// AdvanceToNextTeam hands the turn to the next team in order. It is the
// transition out of FEEDBACK; in any other phase it is a no-op.
func (s *Session) AdvanceToNextTeam() {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	if s.state.Phase != types.PhaseFeedback || len(s.state.Teams) == 0 {
		return
	}

	nextIndex := (s.state.CurrentTeamIndex + 1) % len(s.state.Teams)
	s.advanceTurn(nextIndex)
}

// advanceTurn runs the turn cycle: termination check first, then the market
// event gate, then the scenario draw. Caller must hold the write lock.
func (s *Session) advanceTurn(nextIndex int) {
	st := s.state

	// The turn index wrapping to 0 starts a new round, except when the
	// session is leaving INTRO for the very first turn.
	nextRound := st.CurrentRound
	if nextIndex == 0 && st.Phase != types.PhaseIntro {
		nextRound++
	}

	if len(st.ScenariosPlayed) >= len(st.ScenarioOrder) || nextRound > st.RoundsConfigured {
		s.finishGame()
		return
	}

	if st.Phase != types.PhaseIntro && st.TurnsSinceEvent >= s.config.EventCooldownTurns {
		if s.rng.Float() < s.config.EventProbability {
			if event := s.drawMarketEvent(); event != nil {
				s.fireMarketEvent(event, nextIndex, nextRound)
				return
			}
		}
	}

	s.presentNextScenario(nextIndex, nextRound)
}

// drawMarketEvent picks an event uniformly from the ids not yet used this
// session. An exhausted pool resets to the full catalog, allowing repeats.
func (s *Session) drawMarketEvent() *types.MarketEvent {
	st := s.state

	all := s.catalog.Events()
	if len(all) == 0 {
		return nil
	}

	used := make(map[string]bool, len(st.UsedEventIDs))
	for _, id := range st.UsedEventIDs {
		used[id] = true
	}

	pool := make([]*types.MarketEvent, 0, len(all))
	for _, event := range all {
		if !used[event.ID] {
			pool = append(pool, event)
		}
	}

	if len(pool) == 0 {
		st.UsedEventIDs = []string{}
		pool = all
	}

	return pool[s.rng.Intn(len(pool))]
}

// fireMarketEvent applies the event impact to every team and moves the
// session into MARKET_EVENT. The event does not consume a scenario slot.
func (s *Session) fireMarketEvent(event *types.MarketEvent, nextIndex, nextRound int) {
	st := s.state

	for i := range st.Teams {
		team := &st.Teams[i]
		oldScore := team.Score
		team.KPIs = ApplyImpact(team.KPIs, event.Impact)
		team.Score = Valuation(team.KPIs)
		team.History = append(team.History, types.HistoryEntry{
			Label: eventLabelPrefix + event.Title,
			Delta: team.Score - oldScore,
		})
	}

	st.Phase = types.PhaseMarketEvent
	st.CurrentMarketEvent = event
	st.CurrentScenario = nil
	st.LastFeedback = nil
	st.CurrentTeamIndex = nextIndex
	st.CurrentRound = nextRound
	st.TurnsSinceEvent = 0
	st.UsedEventIDs = append(st.UsedEventIDs, event.ID)

	s.Logger.Info("market event fired",
		zap.String("session_id", st.SessionID),
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.Int("round", nextRound))
}

// presentNextScenario draws the next scenario from the fixed deck order.
// Caller must hold the write lock.
func (s *Session) presentNextScenario(nextIndex, nextRound int) {
	st := s.state

	drawIndex := len(st.ScenariosPlayed)
	if drawIndex >= len(st.ScenarioOrder) {
		s.finishGame()
		return
	}

	scenario := s.catalog.Scenario(st.ScenarioOrder[drawIndex])
	if scenario == nil {
		s.finishGame()
		return
	}

	st.Phase = types.PhasePlaying
	st.CurrentScenario = scenario
	st.CurrentTeamIndex = nextIndex
	st.CurrentRound = nextRound
	st.LastFeedback = nil
	st.CurrentMarketEvent = nil
	st.TurnsSinceEvent++

	s.Logger.Debug("scenario presented",
		zap.String("session_id", st.SessionID),
		zap.String("scenario_id", scenario.ID),
		zap.Int("team_index", nextIndex),
		zap.Int("round", nextRound))
}

// AcknowledgeMarketEvent dismisses the current market event and draws the
// scenario for the turn the event interrupted. Round and team index were
// already fixed when the event fired.
func (s *Session) AcknowledgeMarketEvent() {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	st := s.state
	if st.Phase != types.PhaseMarketEvent {
		return
	}

	s.presentNextScenario(st.CurrentTeamIndex, st.CurrentRound)
}

// ChooseOption resolves the active team's choice for the current scenario.
// An unknown option id, or a call with no scenario active, is silently
// ignored: it can only come from a stale or disabled control.
func (s *Session) ChooseOption(optionID string) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	st := s.state
	if st.Phase != types.PhasePlaying || st.CurrentScenario == nil {
		return
	}

	var selected *types.ScenarioOption
	for i := range st.CurrentScenario.Options {
		if st.CurrentScenario.Options[i].ID == optionID {
			selected = &st.CurrentScenario.Options[i]
			break
		}
	}
	if selected == nil {
		return
	}

	s.applyOption(selected)
}

// AutoChooseOption lets the advisor pick for the active team, then resolves
// that choice. Returns the chosen option id, or "" if nothing was playable.
func (s *Session) AutoChooseOption() string {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	st := s.state
	if st.Phase != types.PhasePlaying || st.CurrentScenario == nil {
		return ""
	}

	selected := s.advisor.ChooseOption(st.Teams[st.CurrentTeamIndex], st.CurrentScenario)
	if selected == nil {
		return ""
	}

	s.applyOption(selected)
	return selected.ID
}

// applyOption mutates the active team, records history and feedback, and
// moves the session into FEEDBACK. Caller must hold the write lock.
func (s *Session) applyOption(option *types.ScenarioOption) {
	st := s.state
	if st.CurrentTeamIndex < 0 || st.CurrentTeamIndex >= len(st.Teams) {
		return
	}

	team := &st.Teams[st.CurrentTeamIndex]
	oldScore := team.Score
	team.KPIs = ApplyImpact(team.KPIs, option.Impact)
	team.Score = Valuation(team.KPIs)
	scoreChange := team.Score - oldScore

	team.History = append(team.History, types.HistoryEntry{
		Label: st.CurrentScenario.Title,
		Delta: scoreChange,
	})

	st.ScenariosPlayed = append(st.ScenariosPlayed, st.CurrentScenario.ID)
	st.LastFeedback = &types.Feedback{
		Impact:      option.Impact,
		TotalChange: scoreChange,
		Text:        option.Feedback,
		Positive:    scoreChange >= 0,
	}
	st.Phase = types.PhaseFeedback

	s.Logger.Info("option resolved",
		zap.String("session_id", st.SessionID),
		zap.String("scenario_id", st.CurrentScenario.ID),
		zap.String("option_id", option.ID),
		zap.String("team", team.Name),
		zap.Int("score_change", scoreChange),
		zap.Int("new_score", team.Score))
}

// ResetGame unconditionally returns the session to its SETUP defaults,
// discarding all progress. Callable from any phase.
func (s *Session) ResetGame() {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	s.cancelIntroTimer()
	s.state = setupState()

	s.Logger.Info("game reset")
}

// finishGame is the terminal transition. Only ResetGame leaves GAME_OVER.
// Caller must hold the write lock.
func (s *Session) finishGame() {
	st := s.state

	st.Phase = types.PhaseGameOver
	st.CurrentScenario = nil
	st.CurrentMarketEvent = nil
	st.LastFeedback = nil
	st.Standings = rankTeams(st.Teams)

	s.Logger.Info("game over",
		zap.String("session_id", st.SessionID),
		zap.Int("rounds_played", st.CurrentRound),
		zap.Int("scenarios_played", len(st.ScenariosPlayed)))

	if s.storage != nil {
		result := &GameResult{
			SessionID:        st.SessionID,
			FinishedAt:       time.Now(),
			RoundsPlayed:     st.CurrentRound,
			RoundsConfigured: st.RoundsConfigured,
			ScenariosPlayed:  len(st.ScenariosPlayed),
			Standings:        st.Standings,
		}
		if err := s.storage.SaveResult(result); err != nil {
			s.Logger.Error("failed to save game result", zap.Error(err))
		}
	}
}

// State returns a snapshot of the session state. Teams, history and deck
// slices are copied; catalog entries are shared because they are immutable.
func (s *Session) State() types.SessionState {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	st := *s.state
	st.Teams = cloneTeams(s.state.Teams)
	st.Standings = cloneTeams(s.state.Standings)
	st.ScenariosPlayed = append([]string{}, s.state.ScenariosPlayed...)
	st.ScenarioOrder = append([]string{}, s.state.ScenarioOrder...)
	st.UsedEventIDs = append([]string{}, s.state.UsedEventIDs...)
	if s.state.LastFeedback != nil {
		feedback := *s.state.LastFeedback
		st.LastFeedback = &feedback
	}

	return st
}

// Standings returns the teams ranked by score, best first. Ties keep team
// order.
func (s *Session) Standings() []types.Team {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	return rankTeams(s.state.Teams)
}

func rankTeams(teams []types.Team) []types.Team {
	ranked := cloneTeams(teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func cloneTeams(teams []types.Team) []types.Team {
	if teams == nil {
		return nil
	}
	cloned := make([]types.Team, len(teams))
	for i, team := range teams {
		cloned[i] = team
		cloned[i].History = append([]types.HistoryEntry{}, team.History...)
	}
	return cloned
}

func (s *Session) cancelIntroTimer() {
	if s.introTimer != nil {
		s.introTimer.Stop()
		s.introTimer = nil
	}
}
