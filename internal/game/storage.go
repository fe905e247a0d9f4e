package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/market-mogul/internal/types"
)

// GameResult is the write-only match report produced when a session reaches
// game over. Sessions are never resumed from these files.
type GameResult struct {
	SessionID        string       `json:"session_id"`
	FinishedAt       time.Time    `json:"finished_at"`
	RoundsPlayed     int          `json:"rounds_played"`
	RoundsConfigured int          `json:"rounds_configured"`
	ScenariosPlayed  int          `json:"scenarios_played"`
	Standings        []types.Team `json:"standings"`
}

// ResultsStorage handles persistence of finished-game reports
type ResultsStorage struct {
	dir       string
	writeLock sync.Mutex
}

// NewResultsStorage creates a new results storage
func NewResultsStorage(dir string) *ResultsStorage {
	return &ResultsStorage{
		dir: dir,
	}
}

// SaveResult writes one game result as a JSON file named by session id.
func (rs *ResultsStorage) SaveResult(result *GameResult) error {
	rs.writeLock.Lock()
	defer rs.writeLock.Unlock()

	// Create results directory if it doesn't exist
	if err := os.MkdirAll(rs.dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	path := filepath.Join(rs.dir, result.SessionID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write game result: %w", err)
	}

	return nil
}

// LoadResult reads one game result back, mainly for tooling and tests.
func (rs *ResultsStorage) LoadResult(sessionID string) (*GameResult, error) {
	rs.writeLock.Lock()
	defer rs.writeLock.Unlock()

	path := filepath.Join(rs.dir, sessionID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game result: %w", err)
	}

	var result GameResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse game result: %w", err)
	}

	return &result, nil
}
