/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/token"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultProviderBaseURL = "https://api.thirdweb-dev.com"
	defaultEconomyFile     = "economy.yaml"
	envDevelopment         = "development"
)

// Load reads the server configuration from the environment, an optional .env
// file and an optional economy YAML file. Every missing required variable is
// reported in a single error.
func Load() (*models.Config, error) {
	loadDotEnv()

	economy, err := loadEconomy()
	if err != nil {
		return nil, err
	}

	var missing []string
	secretKey := getEnvString("THIRDWEB_SECRET_KEY", "")
	if secretKey == "" {
		missing = append(missing, "THIRDWEB_SECRET_KEY")
	}
	if economy.TreasuryAddress == "" {
		missing = append(missing, "TREASURY_WALLET_ADDRESS")
	}
	if economy.TokenAddress == "" {
		missing = append(missing, "TOKEN_CONTRACT_ADDRESS")
	}
	if economy.ChainId == 0 {
		missing = append(missing, "CHAIN_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if err := validateEconomy(economy); err != nil {
		return nil, err
	}

	providerTimeout, err := getEnvDuration("PROVIDER_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	readHeaderTimeout, err := getEnvDuration("READ_HEADER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	sessionMaxAge, err := getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	csrfMaxAge, err := getEnvDuration("CSRF_MAX_AGE", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	appEnv := getEnvString("APP_ENV", "production")

	return &models.Config{
		Server: models.ServerConfig{
			Addr:              getEnvString("HTTP_ADDR", ":8080"),
			Origin:            strings.TrimRight(getEnvString("APP_ORIGIN", ""), "/"),
			Env:               appEnv,
			ShutdownTimeout:   shutdownTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			LogLevel:          getEnvString("LOG_LEVEL", "info"),
		},
		Provider: models.ProviderConfig{
			BaseURL:   strings.TrimRight(getEnvString("THIRDWEB_API_BASE_URL", defaultProviderBaseURL), "/"),
			SecretKey: secretKey,
			Timeout:   providerTimeout,
		},
		Economy: *economy,
		Session: models.SessionConfig{
			MaxAge:     sessionMaxAge,
			CSRFMaxAge: csrfMaxAge,
			Secure:     appEnv != envDevelopment,
		},
	}, nil
}

// LoadClient reads the terminal client configuration. It needs no provider
// secrets; the client only talks to the game API.
func LoadClient() (*models.ClientConfig, error) {
	loadDotEnv()

	requestTimeout, err := getEnvDuration("API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("POLL_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	rewardAmount, err := getEnvDecimal("REWARD_AMOUNT", "0.01")
	if err != nil {
		return nil, err
	}

	penaltyAmount, err := getEnvDecimal("PENALTY_AMOUNT", "0.05")
	if err != nil {
		return nil, err
	}

	return &models.ClientConfig{
		ApiBaseURL:     strings.TrimRight(getEnvString("API_BASE_URL", "http://localhost:8080"), "/"),
		RequestTimeout: requestTimeout,
		Decimals:       int32(getEnvInt("TOKEN_DECIMALS", 18)),
		RewardAmount:   rewardAmount,
		PenaltyAmount:  penaltyAmount,
		LogLevel:       getEnvString("LOG_LEVEL", "warn"),
		Database: models.DatabaseConfig{
			Path:            getEnvString("PROFILE_PATH", "player.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			HistoryLimit:    getEnvInt("HISTORY_LIMIT", 50),
		},
		Listener: models.ListenerConfig{
			PollingInterval: pollingInterval,
			MaxPolls:        getEnvInt("POLL_MAX_ATTEMPTS", 0),
		},
	}, nil
}

func loadEconomy() (*models.EconomyConfig, error) {
	path := getEnvString("ECONOMY_FILE", defaultEconomyFile)
	file, err := LoadEconomyFile(path)
	if err != nil {
		// The default file is optional; an explicitly configured one is not.
		if !(errors.Is(err, os.ErrNotExist) && os.Getenv("ECONOMY_FILE") == "") {
			return nil, err
		}
		file = &EconomyFile{}
	}

	chainId, err := getEnvInt64("CHAIN_ID", file.ChainId)
	if err != nil {
		return nil, err
	}

	rewardAmount, err := getEnvDecimal("REWARD_AMOUNT", orDefault(file.RewardAmount, "0.01"))
	if err != nil {
		return nil, err
	}

	penaltyAmount, err := getEnvDecimal("PENALTY_AMOUNT", orDefault(file.PenaltyAmount, "0.05"))
	if err != nil {
		return nil, err
	}

	hitWindow := 10 * time.Second
	if file.HitWindow != "" {
		hitWindow, err = time.ParseDuration(file.HitWindow)
		if err != nil {
			return nil, fmt.Errorf("invalid hit_window in economy file: %q (%w)", file.HitWindow, err)
		}
	}
	hitWindow, err = getEnvDuration("HIT_WINDOW", hitWindow)
	if err != nil {
		return nil, err
	}

	decimals := file.Token.Decimals
	if decimals == 0 {
		decimals = 18
	}

	leaderboardSize := file.LeaderboardSize
	if leaderboardSize == 0 {
		leaderboardSize = 3
	}

	tokenAddress := getEnvString("TOKEN_CONTRACT_ADDRESS", file.Token.Address)

	return &models.EconomyConfig{
		TreasuryAddress:   getEnvString("TREASURY_WALLET_ADDRESS", file.TreasuryAddress),
		TokenAddress:      tokenAddress,
		ScoreTokenAddress: getEnvString("SCORE_CONTRACT_ADDRESS", orDefault(file.Token.ScoreAddress, tokenAddress)),
		ChainId:           chainId,
		Decimals:          int32(getEnvInt("TOKEN_DECIMALS", int(decimals))),
		RewardAmount:      rewardAmount,
		PenaltyAmount:     penaltyAmount,
		HitWindow:         hitWindow,
		LeaderboardSize:   getEnvInt("LEADERBOARD_SIZE", leaderboardSize),
	}, nil
}

func validateEconomy(e *models.EconomyConfig) error {
	for name, addr := range map[string]string{
		"TREASURY_WALLET_ADDRESS": e.TreasuryAddress,
		"TOKEN_CONTRACT_ADDRESS":  e.TokenAddress,
		"SCORE_CONTRACT_ADDRESS":  e.ScoreTokenAddress,
	} {
		if !token.IsAddress(addr) {
			return fmt.Errorf("invalid address for %s: %q", name, addr)
		}
	}
	if e.Decimals < 0 || e.Decimals > 36 {
		return fmt.Errorf("token decimals out of range: %d", e.Decimals)
	}
	if e.RewardAmount.IsNegative() || e.PenaltyAmount.IsNegative() {
		return fmt.Errorf("reward and penalty amounts cannot be negative")
	}
	if e.HitWindow <= 0 {
		return fmt.Errorf("hit window must be positive, got %v", e.HitWindow)
	}
	return nil
}

// loadDotEnv loads a .env file if one exists. Variables can also be set via
// the shell, docker, etc.
func loadDotEnv() {
	_ = godotenv.Load()
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := getEnvString(key, defaultValue)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q (%w)", key, value, err)
	}
	return d, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %q (%w)", key, value, err)
		}
		return intValue, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
