// Package services contains the application services of the AirControl
// client. This file defines the authentication service: online login with
// an optional offline fallback, the persisted session and route guards.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/gateway"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/aircontrol/internal/dbx"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionKey           = "air_user"
	offlineCredentialKey = "air_offline_credential"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the API and persist the session.
//   - Logout: forget the session.
//   - CurrentSession: the persisted session, nil when logged out.
//   - RequireLogin / RequireRole: guards for protected commands.
//   - Ping: check API liveness.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.Session, error)
	RequireLogin(ctx context.Context) (*models.Session, error)
	RequireRole(ctx context.Context, roles ...string) (*models.Session, error)
	Ping(ctx context.Context) error
}

// offlineCredential lets a user log in again while the API is unreachable.
type offlineCredential struct {
	Email   string         `json:"email"`
	Hash    []byte         `json:"hash"`
	Session models.Session `json:"session"`
}

type authService struct {
	api          gateway.API
	src          dbx.Source
	log          logging.Logger
	offlineLogin bool
	now          func() time.Time
}

// NewAuthService constructs an AuthService. With offlineLogin set, a
// successful login caches a bcrypt hash of the password so that the same
// credentials work while the API is unreachable.
func NewAuthService(api gateway.API, src dbx.Source, log logging.Logger, offlineLogin bool) AuthService {
	return &authService{
		api:          api,
		src:          src,
		log:          log.With("component", "auth"),
		offlineLogin: offlineLogin,
		now:          time.Now,
	}
}

func (a *authService) getMetadataRepo(ctx context.Context) (metadata.Repository, error) {
	db, err := a.src.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	return metadata.NewSQLiteRepository(db), nil
}

// Login exchanges the credentials for a session.
//
// 401 yields ErrInvalidCredentials and 403 an *AccessExpiredError. A
// network failure yields ErrUnavailable, unless offline login is enabled
// and matching credentials are cached.
func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	resp, err := a.api.Login(ctx, email, password)
	switch {
	case err == nil:
	case gateway.IsUnauthorized(err):
		return nil, ErrInvalidCredentials
	case gateway.IsForbidden(err):
		return nil, &AccessExpiredError{Message: forbiddenMessage(err)}
	case gateway.IsNetwork(err):
		if a.offlineLogin {
			a.log.Warn(ctx, "API unreachable, trying offline login", "error", err)
			return a.loginOffline(ctx, email, password)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		if code := gateway.StatusCode(err); code != 0 {
			return nil, fmt.Errorf("login failed with status %d: %w", code, err)
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	session := sessionFrom(resp, email)
	if err := a.saveSession(ctx, session, password); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	a.api.SetToken(session.Token)
	a.log.Info(ctx, "logged in", "email", session.Email, "role", session.Role)
	return &session, nil
}

func forbiddenMessage(err error) string {
	var se *gateway.StatusError
	if errors.As(err, &se) && strings.TrimSpace(se.Body) != "" {
		return strings.TrimSpace(se.Body)
	}
	return DefaultAccessExpiredMessage
}

func sessionFrom(resp *gateway.LoginResponse, email string) models.Session {
	s := models.Session{
		Email: resp.Email,
		Name:  resp.Name,
		Role:  models.NormalizeRole(resp.Role),
		Token: resp.Token,
	}
	if s.Email == "" {
		s.Email = email
	}
	if exp, ok := tokenExpiry(resp.Token); ok {
		s.ExpiresAt = &exp
	}
	return s
}

// tokenExpiry reads the exp claim of a JWT. The signature is not checked.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// saveSession persists the session, and the offline credential when
// enabled, in a single transaction.
func (a *authService) saveSession(ctx context.Context, session models.Session, password string) error {
	db, err := a.src.DB(ctx)
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}

	var cred *offlineCredential
	if a.offlineLogin {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		cred = &offlineCredential{Email: strings.ToLower(session.Email), Hash: hash, Session: session}
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := metadata.SetJSON(ctx, repo, sessionKey, session); err != nil {
			return err
		}
		if cred != nil {
			return metadata.SetJSON(ctx, repo, offlineCredentialKey, cred)
		}
		return nil
	})
}

func (a *authService) loginOffline(ctx context.Context, email, password string) (*models.Session, error) {
	repo, err := a.getMetadataRepo(ctx)
	if err != nil {
		return nil, err
	}

	var cred offlineCredential
	ok, err := metadata.GetJSON(ctx, repo, offlineCredentialKey, &cred)
	if err != nil || !ok {
		if err != nil {
			a.log.Warn(ctx, "offline credential unreadable", "error", err)
		}
		return nil, ErrUnavailable
	}

	if !strings.EqualFold(cred.Email, email) {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(cred.Hash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	session := cred.Session
	if err := metadata.SetJSON(ctx, repo, sessionKey, session); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	a.api.SetToken(session.Token)
	a.log.Info(ctx, "logged in offline", "email", session.Email)
	return &session, nil
}

func (a *authService) Logout(ctx context.Context) error {
	repo, err := a.getMetadataRepo(ctx)
	if err != nil {
		return err
	}
	a.api.SetToken("")
	return repo.Delete(ctx, sessionKey)
}

func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	repo, err := a.getMetadataRepo(ctx)
	if err != nil {
		return nil, err
	}

	var s models.Session
	ok, err := metadata.GetJSON(ctx, repo, sessionKey, &s)
	var malformed *metadata.ErrMalformed
	if errors.As(err, &malformed) {
		a.log.Warn(ctx, "discarding malformed session", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// RequireLogin returns the active session and makes its token current.
// Missing or expired sessions yield ErrNotLoggedIn.
func (a *authService) RequireLogin(ctx context.Context) (*models.Session, error) {
	s, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Expired(a.now()) {
		return nil, ErrNotLoggedIn
	}
	a.api.SetToken(s.Token)
	return s, nil
}

// RequireRole is RequireLogin plus a role check; a mismatch yields
// ErrForbidden.
func (a *authService) RequireRole(ctx context.Context, roles ...string) (*models.Session, error) {
	s, err := a.RequireLogin(ctx)
	if err != nil {
		return nil, err
	}
	if !s.HasRole(roles...) {
		return nil, ErrForbidden
	}
	return s, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
