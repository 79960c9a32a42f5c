package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/client/models"
)

func (a *App) Geocode(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if len([]rune(strings.TrimSpace(query))) < 3 {
		a.println("Usage: geocode <address> (at least 3 characters)")
		return nil
	}
	p, err := a.geocoder.Search(ctx, query)
	if err != nil {
		return a.fail(err)
	}
	if p == nil {
		a.println("Address not found.")
		return nil
	}
	a.printf("%s, %s\n", p.Lat, p.Lng)
	return nil
}

func (a *App) Reverse(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.fail(fmt.Errorf("%w: usage: reverse <lat> <lng>", models.ErrValidation))
	}
	addr, err := a.geocoder.Reverse(ctx, args[0], args[1])
	if err != nil {
		return a.fail(err)
	}
	if addr == "" {
		a.println("No address found.")
		return nil
	}
	a.println(addr)
	return nil
}
