package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Counts(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Photos(ctx context.Context, args []string) error
	AddTechnician(ctx context.Context) error
	AddUser(ctx context.Context) error
	Geocode(ctx context.Context, args []string) error
	Reverse(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, geocode <address>, reverse <lat> <lng>, exit"
	helpLoggedIn  = "Available commands: (l)ist [status] [search], counts, show <id>, new, " +
		"status <id> <status>, delete <id>, photos <id>, addtech, adduser, " +
		"geocode <address>, reverse <lat> <lng>, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the AirControl CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help                   show available commands
//	  - login                  authenticate
//	  - geocode <address>      look up coordinates
//	  - reverse <lat> <lng>    look up an address
//	  - exit | quit            leave the program
//
//	Logged in, additionally:
//	  - list [status] [text]   list work orders ("Todas" for every status)
//	  - counts                 open / in progress / completed totals
//	  - show <id>              work order details
//	  - new                    create a work order
//	  - status <id> <status>   change the status
//	  - delete <id>            delete a work order
//	  - photos <id>            print photo URLs of a work order
//	  - addtech | adduser      staff registration
//	  - whoami | logout
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("os> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "counts":
			_ = a.Counts(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "new":
			_ = a.Create(ctx)

		case "status":
			_ = a.SetStatus(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "photos":
			_ = a.Photos(ctx, args)

		case "addtech":
			_ = a.AddTechnician(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "geocode":
			_ = a.Geocode(ctx, args)

		case "reverse":
			_ = a.Reverse(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "help", "login", "geocode", "reverse", "exit", "quit":
		return false
	}
	return true
}
