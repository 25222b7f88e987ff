package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	ReadAll(ctx context.Context) error
	Mentions(ctx context.Context, text string) error
	Open(ctx context.Context, username string) error
	Avatar(ctx context.Context, username string) error
	Price(ctx context.Context, args []string) error
	Discover(ctx context.Context, location, userType string) error
	ResetPassword(ctx context.Context) error
	AcceptTerms(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, reset-password, mentions <text>, open <user>, avatar <user>, price [low high], exit"
	helpSignedIn  = "Available commands: (n)otifications, read <id>, readall, mentions <text>, open <user>, avatar <user>, " +
		"price [low high], discover <location> [userType], whoami, reset-password, accept-terms, logout, exit"
)

// runREPL reads commands from scanner until EOF or "exit"/"quit" and
// dispatches them to a. statusFn is rendered into every prompt.
//
// Command errors are reported inline and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("housers %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		args := strings.Fields(rest)
		if cmd == "" {
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "n", "notifications":
			err = a.Notifications(ctx)

		case "read":
			if len(args) != 1 {
				printlnFn("Usage: read <id>")
				continue
			}
			err = a.Read(ctx, args[0])

		case "readall":
			err = a.ReadAll(ctx)

		case "mentions":
			if rest == "" {
				printlnFn("Usage: mentions <text>")
				continue
			}
			err = a.Mentions(ctx, rest)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <username>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "avatar":
			if len(args) != 1 {
				printlnFn("Usage: avatar <username>")
				continue
			}
			err = a.Avatar(ctx, args[0])

		case "price":
			err = a.Price(ctx, args)

		case "discover":
			if len(args) == 0 {
				printlnFn("Usage: discover <location> [userType]")
				continue
			}
			location, userType := args[0], ""
			if len(args) > 1 {
				userType = args[len(args)-1]
				location = strings.Join(args[:len(args)-1], " ")
			}
			err = a.Discover(ctx, location, userType)

		case "reset-password":
			err = a.ResetPassword(ctx)

		case "accept-terms":
			err = a.AcceptTerms(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}
