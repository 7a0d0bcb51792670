// Package session implements the gate that decides whether the analytics
// screens are reachable: a process-wide active user, read once at
// startup and changed only by Login and Logout.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/logging"
	"drawdown-console/internal/models"
	"drawdown-console/internal/security"
	"drawdown-console/internal/store"
)

// InvalidCredentialsMessage is shown when login fails.
const InvalidCredentialsMessage = "Invalid Credentials. Please create an account."

// Registration is the sign-up form.
type Registration struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	AccountID   string
	Password    string
}

// Gate owns the active user.
type Gate struct {
	store  store.AccountStore
	audit  *security.AuditLogger
	logger zerolog.Logger

	mu     sync.RWMutex
	active *models.User
}

// NewGate creates a gate and reads the persisted active user once.
// A persisted id that no longer resolves to an account is cleared.
func NewGate(ctx context.Context, st store.AccountStore, audit *security.AuditLogger, logger zerolog.Logger) (*Gate, error) {
	g := &Gate{store: st, audit: audit, logger: logger}

	id, err := st.GetActiveUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading active session: %w", err)
	}
	if id == "" {
		return g, nil
	}

	rec, err := st.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading active user: %w", err)
	}
	if rec == nil {
		if err := st.ClearActiveUser(ctx); err != nil {
			return nil, err
		}
		return g, nil
	}
	u := rec.User
	g.active = &u
	return g, nil
}

// ActiveUser returns the signed-in user, or nil.
func (g *Gate) ActiveUser() *models.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.active == nil {
		return nil
	}
	u := *g.active
	return &u
}

// IsActive reports whether the analytics screens are reachable.
func (g *Gate) IsActive() bool {
	return g.ActiveUser() != nil
}

// Require returns ErrNotAuthenticated when nobody is signed in.
func (g *Gate) Require() (*models.User, error) {
	u := g.ActiveUser()
	if u == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return u, nil
}

// Register creates an account. It does not sign the user in.
func (g *Gate) Register(ctx context.Context, r Registration) (*models.User, error) {
	r.AccountID = strings.TrimSpace(r.AccountID)
	for _, err := range []error{
		security.ValidateAccountID(r.AccountID),
		security.ValidatePassword(r.Password),
		security.ValidateDate("date_of_birth", r.DateOfBirth),
	} {
		if err != nil {
			g.audit.LogRegister(ctx, r.AccountID, false, err.Error())
			var ve *security.ValidationError
			if apperrors.As(err, &ve) {
				return nil, apperrors.NewValidationFailure(ve.Field, ve.Value, ve.Message)
			}
			return nil, err
		}
	}

	hash, salt, err := security.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	rec := &store.UserRecord{
		User: models.User{
			AccountID:   r.AccountID,
			FirstName:   strings.TrimSpace(r.FirstName),
			LastName:    strings.TrimSpace(r.LastName),
			DateOfBirth: r.DateOfBirth,
			CreatedAt:   time.Now(),
		},
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := g.store.CreateUser(ctx, rec); err != nil {
		g.audit.LogRegister(ctx, r.AccountID, false, err.Error())
		return nil, err
	}

	g.audit.LogRegister(ctx, r.AccountID, true, "")
	logging.LogSession(g.logger, string(security.AuditRegister), r.AccountID)
	u := rec.User
	return &u, nil
}

// Login verifies the credentials and makes the account active.
func (g *Gate) Login(ctx context.Context, accountID, password string) (*models.User, error) {
	accountID = strings.TrimSpace(accountID)
	rec, err := g.store.GetUser(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if rec == nil || !security.VerifyPassword(password, rec.PasswordHash, rec.Salt) {
		g.audit.LogAuthFailed(ctx, accountID, apperrors.ErrInvalidCredentials.Error())
		logging.LogSession(g.logger, string(security.AuditAuthFailed), accountID)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidCredentials, InvalidCredentialsMessage)
	}

	if err := g.store.SetActiveUser(ctx, rec.User.AccountID); err != nil {
		return nil, err
	}

	g.mu.Lock()
	u := rec.User
	g.active = &u
	g.mu.Unlock()

	g.audit.LogLogin(ctx, u.AccountID)
	logging.LogSession(g.logger, string(security.AuditLogin), u.AccountID)
	out := u
	return &out, nil
}

// Logout clears the active user. Logging out with nobody signed in is a no-op.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	if err := g.store.ClearActiveUser(ctx); err != nil {
		g.mu.Unlock()
		return err
	}
	prev := g.active
	g.active = nil
	g.mu.Unlock()

	if prev != nil {
		g.audit.LogLogout(ctx, prev.AccountID)
		logging.LogSession(g.logger, string(security.AuditLogout), prev.AccountID)
	}
	return nil
}

// Users lists the registered accounts.
func (g *Gate) Users(ctx context.Context) ([]models.User, error) {
	return g.store.ListUsers(ctx)
}
