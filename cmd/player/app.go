package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"token-rush-go/internal/client"
	"token-rush-go/internal/common"
	"token-rush-go/internal/models"
	"token-rush-go/internal/store"
)

var errNotLoggedIn = errors.New("not logged in, use: login <email>")

// Page size of the recent command, the server's default
const recentPageSize = 10

// app runs REPL commands against the client services
type app struct {
	services     *common.ClientServices
	decimals     int32
	historyLimit int

	pendingEmail string
	gameStart    time.Time
	targets      int
	expired      atomic.Bool
}

func newApp(services *common.ClientServices, cfg *models.ClientConfig) *app {
	return &app{
		services:     services,
		decimals:     cfg.Decimals,
		historyLimit: cfg.Database.HistoryLimit,
	}
}

// sessionExpired is the client's unauthorized hook
func (a *app) sessionExpired() {
	a.expired.Store(true)
}

func (a *app) currentUser(ctx context.Context) (*models.User, error) {
	user, err := a.services.Player.CurrentUser(ctx)
	if errors.Is(err, store.ErrNoCurrentUser) {
		return nil, errNotLoggedIn
	}
	return user, err
}

func (a *app) loggedIn(ctx context.Context) bool {
	_, err := a.currentUser(ctx)
	return err == nil
}

func (a *app) status() string {
	ctx := context.Background()
	if a.expired.Swap(false) {
		printlnFn("Session expired, please log in again")
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return "guest"
	}
	if pending := a.services.Poller.ActiveCount(); pending > 0 {
		return fmt.Sprintf("%s (%d pending)", user.Email, pending)
	}
	return user.Email
}

func (a *app) Login(ctx context.Context, email string) error {
	if err := a.services.Client.SendCode(ctx, email); err != nil {
		return err
	}
	a.pendingEmail = email
	printlnFn("Code sent to", email, "- enter it with: code <code>")
	return nil
}

func (a *app) Code(ctx context.Context, code string) error {
	if a.pendingEmail == "" {
		return errors.New("request a code first: login <email>")
	}
	user, err := a.services.Client.VerifyCode(ctx, a.pendingEmail, code)
	if err != nil {
		return err
	}
	a.pendingEmail = ""
	a.services.Player.Reset()
	printlnFn("Logged in as", user.Email, "wallet", user.WalletAddress)
	return nil
}

func (a *app) Play(ctx context.Context) error {
	if !a.loggedIn(ctx) {
		return errNotLoggedIn
	}
	a.gameStart = time.Now()
	a.targets = 0
	printlnFn("Round started, hit fast!")
	return nil
}

func (a *app) Hit(ctx context.Context, targetId string) error {
	if !a.loggedIn(ctx) {
		return errNotLoggedIn
	}
	if a.gameStart.IsZero() {
		return errors.New("no round running, use: play")
	}
	if targetId == "" {
		a.targets++
		targetId = fmt.Sprintf("target-%d", a.targets)
	}

	record, err := a.services.Player.Hit(ctx, targetId, a.gameStart, time.Now())
	if err != nil {
		return err
	}
	printlnFn(common.FormatTransaction(*record))
	return nil
}

func (a *app) Miss(ctx context.Context) error {
	if !a.loggedIn(ctx) {
		return errNotLoggedIn
	}
	record, err := a.services.Player.Miss(ctx)
	if err != nil {
		return err
	}
	if record.Amount.IsZero() {
		printlnFn("Missed, but your balance is empty")
		return nil
	}
	printlnFn(common.FormatTransaction(*record))
	return nil
}

func (a *app) Withdraw(ctx context.Context, recipient string) error {
	if !a.loggedIn(ctx) {
		return errNotLoggedIn
	}
	record, err := a.services.Player.Withdraw(ctx, recipient)
	if err != nil {
		return err
	}
	if record.Amount.IsZero() {
		printlnFn("Nothing to withdraw")
		return nil
	}
	printlnFn(common.FormatTransaction(*record))
	return nil
}

func (a *app) Balance(ctx context.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	overview, err := a.services.Player.Overview(ctx)
	if err != nil {
		return err
	}
	printlnFn("Balance: ", overview.Balance.String())
	printlnFn("Treasury:", overview.Treasury.String())
	common.PrintLeaderboard(overview.Owners, a.decimals, user.WalletAddress)
	return nil
}

func (a *app) History(ctx context.Context) error {
	records, err := a.services.Player.History(ctx, a.historyLimit)
	if err != nil {
		return err
	}
	common.PrintTransactions(records)
	return nil
}

// Recent shows one page of the treasury's transactions as the provider sees them
func (a *app) Recent(ctx context.Context, page int) error {
	list, err := a.services.Client.Transactions(ctx, page, recentPageSize)
	if err != nil {
		return err
	}
	common.PrintProviderTransactions(list)
	return nil
}

func (a *app) Leaderboard(ctx context.Context) error {
	owners, err := a.services.Client.Leaderboard(ctx)
	if err != nil {
		return err
	}
	self := ""
	if user, err := a.currentUser(ctx); err == nil {
		self = user.WalletAddress
	}
	common.PrintLeaderboard(owners, a.decimals, self)
	return nil
}

// Wait blocks until every tracked transaction is resolved
func (a *app) Wait(ctx context.Context) error {
	pending := a.services.Poller.ActiveCount()
	if pending == 0 {
		printlnFn("No pending transactions")
		return nil
	}
	printlnFn(fmt.Sprintf("Waiting for %d transaction(s)...", pending))
	a.services.Poller.Wait()
	return nil
}

func (a *app) Logout(ctx context.Context) error {
	a.services.Player.Reset()
	a.gameStart = time.Time{}
	err := a.services.Client.Logout(ctx)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	printlnFn("Logged out")
	return nil
}
