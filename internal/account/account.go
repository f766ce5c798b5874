// Package account signs users up and authenticates them, yielding the
// opaque owner id that scopes every ledger operation.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"budget/internal/core"
)

// Repository persists accounts.
type Repository interface {
	CreateAccount(ctx context.Context, username, passwordHash string) (core.OwnerID, error)
	AccountByUsername(ctx context.Context, username string) (core.Account, error)
}

type Gateway struct {
	repo    Repository
	cost    int
	compare func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*Gateway)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(g *Gateway) { g.cost = cost }
}

func NewGateway(repo Repository, opts ...Option) *Gateway {
	g := &Gateway{repo: repo, cost: bcrypt.DefaultCost, compare: bcrypt.CompareHashAndPassword}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Signup creates an account. Usernames are trimmed; passwords are not.
func (g *Gateway) Signup(ctx context.Context, username, password string) (core.OwnerID, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, &core.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := g.repo.CreateAccount(ctx, username, string(hash))
	if err != nil {
		return 0, fmt.Errorf("signup %q: %w", username, err)
	}
	slog.InfoContext(ctx, "Account created", "owner", id, "username", username)
	return id, nil
}

// Login returns the owner id for matching credentials. Every mismatch,
// including an unknown username, is ErrAuthentication.
func (g *Gateway) Login(ctx context.Context, username, password string) (core.OwnerID, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return 0, err
	}

	acc, err := g.repo.AccountByUsername(ctx, username)
	if errors.Is(err, core.ErrAccountNotFound) {
		// Same bcrypt work as a wrong password so timing does not reveal
		// which usernames exist.
		_ = g.compare(g.unknownUserHash(), []byte(password))
		return 0, core.ErrAuthentication
	}
	if err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}

	if err := g.compare([]byte(acc.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "Failed login", "username", username)
		return 0, core.ErrAuthentication
	}
	return acc.ID, nil
}

// unknownUserHash is a hash at the gateway's cost that no password matches.
func (g *Gateway) unknownUserHash() []byte {
	g.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("budget-unknown-user"), g.cost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte("budget-unknown-user"), bcrypt.DefaultCost)
		}
		g.dummyHash = hash
	})
	return g.dummyHash
}

func validateCredentials(username, password string) error {
	if username == "" {
		return &core.ValidationError{Field: "username", Reason: "is required"}
	}
	if password == "" {
		return &core.ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
