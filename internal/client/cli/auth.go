package cli

import (
	"context"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and opens a session. The password prompt
// does not echo.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}

	a.session = s
	a.printf("Welcome, %s (%s)\n", displayName(s.Name, s.Email), s.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(err)
	}
	a.session = nil
	a.lookup.Invalidate()
	a.println("Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	s, err := a.auth.RequireLogin(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.printf("%s <%s>, role %s\n", displayName(s.Name, s.Email), s.Email, s.Role)
	if s.ExpiresAt != nil {
		a.printf("Session valid until %s\n", s.ExpiresAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
