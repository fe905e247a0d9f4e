package interfaces

import "github.com/user/market-mogul/internal/types"

// SessionController defines the interface for game session operations
type SessionController interface {
	StartGame(teamNames []string) error
	ChooseOption(optionID string)
	AutoChooseOption() string
	AdvanceToNextTeam()
	AcknowledgeMarketEvent()
	ResetGame()
	State() types.SessionState
	Standings() []types.Team
}
