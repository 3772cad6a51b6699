package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the server configuration
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Economy  EconomyConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr              string
	Origin            string // empty means derive from each request
	Env               string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	LogLevel          string
}

// ProviderConfig holds custodial wallet provider settings
type ProviderConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// EconomyConfig holds the token and game economy settings
type EconomyConfig struct {
	TreasuryAddress   string
	TokenAddress      string
	ScoreTokenAddress string
	ChainId           int64
	Decimals          int32
	RewardAmount      decimal.Decimal // human-readable token units
	PenaltyAmount     decimal.Decimal // human-readable token units
	HitWindow         time.Duration
	LeaderboardSize   int
}

// SessionConfig holds cookie settings
type SessionConfig struct {
	MaxAge     time.Duration
	CSRFMaxAge time.Duration
	Secure     bool
}

// ClientConfig represents the terminal client configuration
type ClientConfig struct {
	ApiBaseURL     string
	RequestTimeout time.Duration
	Database       DatabaseConfig
	Listener       ListenerConfig
	Decimals       int32
	RewardAmount   decimal.Decimal // shown on the optimistic record of a hit
	PenaltyAmount  decimal.Decimal // shown on a miss until the server answers
	LogLevel       string
}

// DatabaseConfig holds the client profile database settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	HistoryLimit    int
}

// ListenerConfig holds transaction poller settings
type ListenerConfig struct {
	PollingInterval time.Duration
	MaxPolls        int // zero polls until a terminal status
}
