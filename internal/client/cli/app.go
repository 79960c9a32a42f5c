package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/bootstrap"
	"github.com/dmitrijs2005/aircontrol/internal/client/config"
	"github.com/dmitrijs2005/aircontrol/internal/client/geocode"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/services"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Geocoder is the part of geocode.Geocoder the CLI uses.
type Geocoder interface {
	Search(ctx context.Context, query string) (*geocode.Point, error)
	Reverse(ctx context.Context, lat, lng string) (string, error)
}

type App struct {
	config     *config.Config
	log        logging.Logger
	auth       services.AuthService
	workOrders services.WorkOrderService
	staff      services.StaffService
	lookup     services.LookupService
	geocoder   Geocoder
	closer     io.Closer

	session *models.Session
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode

	// file URLs handed out by the photos command, released on exit
	photoRefs []models.ObjectRef
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	deps, err := bootstrap.Build(ctx, c, log)
	if err != nil {
		log.Error(ctx, "error initializing application", "error", err)
		return nil, err
	}

	return &App{
		config:     c,
		log:        log,
		auth:       deps.Auth,
		workOrders: deps.WorkOrders,
		staff:      deps.Staff,
		lookup:     deps.Lookup,
		geocoder:   deps.Geocoder,
		closer:     deps,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	a.releasePhotos()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warn(context.Background(), "close local database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// StartOnlineStatusWatcher probes the API every interval and updates the
// mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints a user-facing message for err and returns it.
func (a *App) fail(err error) error {
	var expired *services.AccessExpiredError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &expired):
		a.println(expired.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		a.println("Invalid email or password.")
	case errors.Is(err, services.ErrUnavailable):
		a.println("Could not connect to the server. Check your connection.")
	case errors.Is(err, services.ErrNotLoggedIn):
		a.session = nil
		a.println("Your session has ended. Please log in again.")
	case errors.Is(err, services.ErrForbidden):
		a.println("Access restricted to administrators.")
	case errors.Is(err, services.ErrEmailTaken):
		a.println("This email is already registered.")
	case errors.Is(err, models.ErrValidation):
		a.println(err.Error())
	default:
		a.println("Error:", err.Error())
	}
	return err
}
