package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		s = a.session.Email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the saved session or asks for credentials, starts the
// connectivity watcher and runs the REPL.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to AirControl CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	if s, err := a.auth.RequireLogin(ctx); err == nil {
		a.session = s
		a.printf("Logged in as %s (%s)\n", s.Email, s.Role)
	} else {
		_ = a.Login(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
