package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// TokenFile describes the reward token in the economy file
type TokenFile struct {
	Address      string `yaml:"address"`
	Decimals     int32  `yaml:"decimals"`
	ScoreAddress string `yaml:"score_address"`
}

// EconomyFile is the on-disk form of the game economy. Environment variables
// override every field.
type EconomyFile struct {
	TreasuryAddress string    `yaml:"treasury_address"`
	ChainId         int64     `yaml:"chain_id"`
	Token           TokenFile `yaml:"token"`
	RewardAmount    string    `yaml:"reward_amount"`
	PenaltyAmount   string    `yaml:"penalty_amount"`
	HitWindow       string    `yaml:"hit_window"`
	LeaderboardSize int       `yaml:"leaderboard_size"`
}

func LoadEconomyFile(economyFile string) (*EconomyFile, error) {
	var economyPath string
	if filepath.IsAbs(economyFile) {
		economyPath = economyFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		economyPath = filepath.Join(wd, economyFile)
	}

	data, err := os.ReadFile(economyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", economyFile, err)
	}

	var file EconomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", economyFile, err)
	}

	if file.Token.Decimals < 0 {
		return nil, fmt.Errorf("token decimals in %s cannot be negative", economyFile)
	}
	if file.LeaderboardSize < 0 {
		return nil, fmt.Errorf("leaderboard_size in %s cannot be negative", economyFile)
	}

	return &file, nil
}
