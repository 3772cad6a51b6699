package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is replaced in tests
var printlnFn = fmt.Println

// commands is what the REPL can run. app implements it.
type commands interface {
	loggedIn(ctx context.Context) bool
	Login(ctx context.Context, email string) error
	Code(ctx context.Context, code string) error
	Play(ctx context.Context) error
	Hit(ctx context.Context, targetId string) error
	Miss(ctx context.Context) error
	Withdraw(ctx context.Context, recipient string) error
	Balance(ctx context.Context) error
	History(ctx context.Context) error
	Recent(ctx context.Context, page int) error
	Leaderboard(ctx context.Context) error
	Wait(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it. It returns on EOF,
// "exit" or "quit". Command errors are printed and the loop goes on.
//
//	Logged out: login <email>, code <code>, leaderboard, help, exit
//	Logged in:  play, hit [target], miss, withdraw <address>, balance,
//	            history, recent [page], leaderboard, wait, logout, help, exit
func runREPL(ctx context.Context, a commands, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rush> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.loggedIn(ctx) {
				printlnFn("Available commands: play, (h)it [target], (m)iss, withdraw <address>, (b)alance, history, recent [page], leaderboard, wait, logout, exit")
			} else {
				printlnFn("Available commands: login <email>, code <code>, leaderboard, exit")
			}

		case "login":
			if len(args) != 1 {
				printlnFn("Usage: login <email>")
				continue
			}
			err = a.Login(ctx, args[0])

		case "code":
			if len(args) != 1 {
				printlnFn("Usage: code <code>")
				continue
			}
			err = a.Code(ctx, args[0])

		case "play":
			err = a.Play(ctx)

		case "h", "hit":
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			err = a.Hit(ctx, target)

		case "m", "miss":
			err = a.Miss(ctx)

		case "withdraw":
			if len(args) != 1 {
				printlnFn("Usage: withdraw <address>")
				continue
			}
			err = a.Withdraw(ctx, args[0])

		case "b", "balance":
			err = a.Balance(ctx)

		case "history":
			err = a.History(ctx)

		case "recent":
			page := 1
			if len(args) > 0 {
				n, convErr := strconv.Atoi(args[0])
				if convErr != nil || n < 1 {
					printlnFn("Usage: recent [page]")
					continue
				}
				page = n
			}
			err = a.Recent(ctx, page)

		case "leaderboard":
			err = a.Leaderboard(ctx)

		case "wait":
			err = a.Wait(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
