package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	PlayerSymbol string `yaml:"player-symbol" env:"TICTACTOE_PLAYER_SYMBOL" env-default:"o"`
	Pacing       Pacing `yaml:"pacing"`
	Shell        Shell  `yaml:"shell"`
}

// Pacing holds the cosmetic delays between turns.
type Pacing struct {
	OpeningDelay  time.Duration `yaml:"opening-delay" env:"TICTACTOE_OPENING_DELAY" env-default:"1s"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"TICTACTOE_COMPUTER_DELAY" env-default:"800ms"`
	RestartDelay  time.Duration `yaml:"restart-delay" env:"TICTACTOE_RESTART_DELAY" env-default:"3s"`
	ManualRestart bool          `yaml:"manual-restart" env:"TICTACTOE_MANUAL_RESTART" env-default:"false"`
}

type Shell struct {
	Prompt      string `yaml:"prompt" env-default:"tictactoe> "`
	HistoryFile string `yaml:"history-file" env:"TICTACTOE_HISTORY_FILE" env-default:""`
}

// MustLoad - load all configurations in config.yml file, falling back to the environment when it is missing.
func MustLoad(path string) *Config {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			panic(fmt.Errorf("unable to read config from environment: %w", err))
		}

		return config
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}
