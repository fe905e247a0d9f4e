package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Starting revenue for every team
	StartingRevenue int `json:"starting_revenue"`

	// Starting innovation for every team
	StartingInnovation int `json:"starting_innovation"`

	// Starting risk for every team
	StartingRisk int `json:"starting_risk"`

	// Probability of a market event firing on an eligible turn (0-1)
	EventProbability float64 `json:"event_probability"`

	// Minimum number of scenario turns between market events
	EventCooldownTurns int `json:"event_cooldown_turns"`

	// Delay between game start and the first turn, in milliseconds
	IntroDelayMs int `json:"intro_delay_ms"`

	// Rounds played with two teams
	RoundsTwoTeams int `json:"rounds_two_teams"`

	// Rounds played with four teams
	RoundsFourTeams int `json:"rounds_four_teams"`

	// Directory holding scenarios.json and events.json
	DataDir string `json:"data_dir"`

	// Directory where finished-game reports are written (empty disables them)
	ResultsDir string `json:"results_dir"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			StartingRevenue:    100,
			StartingInnovation: 50,
			StartingRisk:       10,
			EventProbability:   0.35,
			EventCooldownTurns: 2,
			IntroDelayMs:       1500,
			RoundsTwoTeams:     6,
			RoundsFourTeams:    3,
			DataDir:            "./assets/data",
			ResultsDir:         "./data/results",
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		file, err := os.Create(path)
		if err != nil {
			return config, err
		}
		defer file.Close()

		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(config); err != nil {
			return config, err
		}

		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
