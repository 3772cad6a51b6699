package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"token-rush-go/internal/api"
	"token-rush-go/internal/client"
	"token-rush-go/internal/database"
	"token-rush-go/internal/listener"
	"token-rush-go/internal/models"
	"token-rush-go/internal/player"
	"token-rush-go/internal/session"
	"token-rush-go/internal/thirdweb"
	"token-rush-go/internal/transfer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is everything the API server runs on
type Services struct {
	Gateway   *thirdweb.Service
	Transfers *transfer.Service
	Guard     *session.Guard
	Router    *gin.Engine
}

// ClientServices is everything the terminal client runs on
type ClientServices struct {
	DbService *database.Service
	Client    *client.Client
	Poller    *listener.TransactionPoller
	Player    *player.Service
}

// InitializeLogger installs a production zap logger at the given level as the
// global logger.
func InitializeLogger(level string) (*zap.Logger, func()) {
	zapConfig := zap.NewProductionConfig()
	if level != "" {
		atomicLevel, err := zap.ParseAtomicLevel(level)
		if err != nil {
			log.Printf("Unknown log level %q, using info\n", level)
		} else {
			zapConfig.Level = atomicLevel
		}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(cfg *models.Config) (*Services, error) {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	gateway, err := thirdweb.NewService(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("unable to create wallet gateway: %w", err)
	}

	transfers, err := transfer.NewService(gateway, cfg.Economy)
	if err != nil {
		return nil, fmt.Errorf("unable to create transfer service: %w", err)
	}

	guard := session.NewGuard(cfg.Session, cfg.Server.Origin)

	zap.L().Info("Game economy loaded",
		zap.String("treasury", cfg.Economy.TreasuryAddress),
		zap.String("token", cfg.Economy.TokenAddress),
		zap.Int64("chain_id", cfg.Economy.ChainId),
		zap.String("reward", cfg.Economy.RewardAmount.String()),
		zap.String("penalty", cfg.Economy.PenaltyAmount.String()),
		zap.Duration("hit_window", cfg.Economy.HitWindow))

	return &Services{
		Gateway:   gateway,
		Transfers: transfers,
		Guard:     guard,
		Router:    api.NewRouter(api.NewGameService(transfers, guard)),
	}, nil
}

// InitializeClient opens the player profile and wires the API client, the
// transaction poller and the player actions. onUnauthorized runs after the
// stored player has been cleared because the API answered 401.
func InitializeClient(ctx context.Context, cfg *models.ClientConfig, onUnauthorized func()) (*ClientServices, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.New(cfg.ApiBaseURL, cfg.RequestTimeout, dbService,
		client.WithOnUnauthorized(func() {
			if err := dbService.ClearCurrentUser(context.Background()); err != nil {
				zap.L().Warn("Failed to clear stored user", zap.Error(err))
			}
			if onUnauthorized != nil {
				onUnauthorized()
			}
		}))
	if err != nil {
		dbService.Close()
		return nil, err
	}

	poller := listener.NewTransactionPoller(listener.TransactionPollerConfig{
		Fetcher:         apiClient,
		Store:           dbService,
		PollingInterval: cfg.Listener.PollingInterval,
		MaxPolls:        cfg.Listener.MaxPolls,
		OnUpdate:        PrintTransactionUpdate,
	})

	playerService := player.NewService(apiClient, dbService, poller, player.Config{
		Decimals:      cfg.Decimals,
		RewardAmount:  cfg.RewardAmount,
		PenaltyAmount: cfg.PenaltyAmount,
	})

	return &ClientServices{
		DbService: dbService,
		Client:    apiClient,
		Poller:    poller,
		Player:    playerService,
	}, nil
}

func (cs *ClientServices) Close() {
	if cs.Poller != nil {
		cs.Poller.Stop()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
