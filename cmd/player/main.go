package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"token-rush-go/internal/common"
	"token-rush-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	profile := flag.String("profile", "", "Path to the player profile database (overrides PROFILE_PATH)")
	flag.Parse()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if *profile != "" {
		cfg.Database.Path = *profile
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var a *app
	services, err := common.InitializeClient(ctx, cfg, func() {
		if a != nil {
			a.sessionExpired()
		}
	})
	if err != nil {
		zap.L().Fatal("Failed to initialize client", zap.Error(err))
	}
	defer services.Close()

	a = newApp(services, cfg)

	if resumed, err := services.Player.Resume(ctx); err != nil {
		zap.L().Warn("Failed to resume pending transactions", zap.Error(err))
	} else if resumed > 0 {
		fmt.Printf("Watching %d pending transaction(s) from the last session\n", resumed)
	}

	fmt.Println("Token Rush - type 'help' for commands")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}
