package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	testTreasury = "0x1111111111111111111111111111111111111111"
	testToken    = "0x2222222222222222222222222222222222222222"
	testScore    = "0x3333333333333333333333333333333333333333"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ECONOMY_FILE", "")
	t.Setenv("THIRDWEB_SECRET_KEY", "secret")
	t.Setenv("TREASURY_WALLET_ADDRESS", testTreasury)
	t.Setenv("TOKEN_CONTRACT_ADDRESS", testToken)
	t.Setenv("CHAIN_ID", "84532")
	t.Setenv("READ_HEADER_TIMEOUT", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider.BaseURL != defaultProviderBaseURL {
		t.Errorf("expected default base URL, got %s", cfg.Provider.BaseURL)
	}
	if cfg.Economy.ChainId != 84532 {
		t.Errorf("expected chain id 84532, got %d", cfg.Economy.ChainId)
	}
	if cfg.Economy.Decimals != 18 {
		t.Errorf("expected 18 decimals, got %d", cfg.Economy.Decimals)
	}
	if !cfg.Economy.RewardAmount.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("expected reward 0.01, got %s", cfg.Economy.RewardAmount)
	}
	if !cfg.Economy.PenaltyAmount.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("expected penalty 0.05, got %s", cfg.Economy.PenaltyAmount)
	}
	if cfg.Economy.HitWindow != 10*time.Second {
		t.Errorf("expected 10s hit window, got %v", cfg.Economy.HitWindow)
	}
	if cfg.Economy.ScoreTokenAddress != testToken {
		t.Errorf("score token should default to reward token, got %s", cfg.Economy.ScoreTokenAddress)
	}
	if cfg.Session.MaxAge != 7*24*time.Hour {
		t.Errorf("expected 7 day session, got %v", cfg.Session.MaxAge)
	}
	if !cfg.Session.Secure {
		t.Error("cookies should be secure outside development")
	}
	if cfg.Server.ReadHeaderTimeout != 10*time.Second {
		t.Errorf("expected 10s read header timeout, got %v", cfg.Server.ReadHeaderTimeout)
	}
}

func TestLoad_ReadHeaderTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("READ_HEADER_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("expected 3s read header timeout, got %v", cfg.Server.ReadHeaderTimeout)
	}

	t.Setenv("READ_HEADER_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid read header timeout")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("ECONOMY_FILE", "")
	t.Setenv("THIRDWEB_SECRET_KEY", "")
	t.Setenv("TREASURY_WALLET_ADDRESS", "")
	t.Setenv("TOKEN_CONTRACT_ADDRESS", "")
	t.Setenv("CHAIN_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing configuration")
	}
	for _, name := range []string{"THIRDWEB_SECRET_KEY", "TREASURY_WALLET_ADDRESS", "TOKEN_CONTRACT_ADDRESS", "CHAIN_ID"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should mention %s", err, name)
		}
	}
}

func TestLoad_InvalidAddress(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TREASURY_WALLET_ADDRESS", "treasury")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed treasury address")
	}
}

func TestLoad_DevelopmentDisablesSecureCookies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Session.Secure {
		t.Error("cookies should not be secure in development")
	}
}

func TestLoad_EconomyFileWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_CONTRACT_ADDRESS", "")
	t.Setenv("CHAIN_ID", "")
	t.Setenv("PENALTY_AMOUNT", "0.1")

	path := filepath.Join(t.TempDir(), "economy.yaml")
	content := `
chain_id: 8453
token:
  address: ` + testToken + `
  decimals: 6
  score_address: ` + testScore + `
reward_amount: "0.5"
hit_window: 5s
leaderboard_size: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write economy file: %v", err)
	}
	t.Setenv("ECONOMY_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Economy.ChainId != 8453 {
		t.Errorf("expected chain id from file, got %d", cfg.Economy.ChainId)
	}
	if cfg.Economy.Decimals != 6 {
		t.Errorf("expected 6 decimals, got %d", cfg.Economy.Decimals)
	}
	if cfg.Economy.ScoreTokenAddress != testScore {
		t.Errorf("expected score token from file, got %s", cfg.Economy.ScoreTokenAddress)
	}
	if !cfg.Economy.RewardAmount.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("expected reward from file, got %s", cfg.Economy.RewardAmount)
	}
	if !cfg.Economy.PenaltyAmount.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("expected penalty from env override, got %s", cfg.Economy.PenaltyAmount)
	}
	if cfg.Economy.HitWindow != 5*time.Second {
		t.Errorf("expected 5s window, got %v", cfg.Economy.HitWindow)
	}
	if cfg.Economy.LeaderboardSize != 5 {
		t.Errorf("expected leaderboard size 5, got %d", cfg.Economy.LeaderboardSize)
	}
}

func TestLoad_ExplicitEconomyFileMissing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ECONOMY_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error when configured economy file is missing")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_MAX_AGE", "forever")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://game.local:8080/")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("PENALTY_AMOUNT", "")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.ApiBaseURL != "http://game.local:8080" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.ApiBaseURL)
	}
	if cfg.Listener.PollingInterval != 3*time.Second {
		t.Errorf("expected 3s poll interval, got %v", cfg.Listener.PollingInterval)
	}
	if cfg.Database.Path != "player.db" {
		t.Errorf("expected default profile path, got %s", cfg.Database.Path)
	}
	if !cfg.PenaltyAmount.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("expected penalty 0.05, got %s", cfg.PenaltyAmount)
	}
}
