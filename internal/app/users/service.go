package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"useraccounts/internal/apperr"
	"useraccounts/internal/auth"
	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

var (
	// ErrMissingData rejects a request without a username.
	ErrMissingData = apperr.New(apperr.Validation, "Missing user data")
	// ErrPasswordMismatch rejects a registration whose password confirmation differs.
	ErrPasswordMismatch = apperr.New(apperr.Validation, "Passwords do not match")
	// ErrBadCredentials is the single public outcome of a failed login.
	ErrBadCredentials = apperr.New(apperr.Auth, "invalid username or password")
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Hasher produces and checks password digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
	VerifyDummy(plaintext string)
}

// Issuer signs session tokens.
type Issuer interface {
	Issue(auth.Identity) (string, error)
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Username        string
	Password        string
	PasswordConfirm string
}

// Service exposes registration and login workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	store  Store
	hasher Hasher
	tokens Issuer
	logger zerolog.Logger
}

// New wires a Service backed by the provided collaborators.
func New(store Store, hasher Hasher, tokens Issuer, logger zerolog.Logger) Service {
	return &service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return ErrMissingData
	}
	if req.Password != req.PasswordConfirm {
		return ErrPasswordMismatch
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	user, err := s.store.CreateUser(ctx, username, digest)
	if err != nil {
		if apperr.KindOf(err) == apperr.Unknown {
			return store.Failure("could not create user", err)
		}
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrMissingData
	}

	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			s.logger.Debug().Str("username", username).Msg("login for unknown user")
			return "", fmt.Errorf("%w: %w", ErrBadCredentials, err)
		}
		return "", err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Debug().Str("user_id", user.ID).Msg("login with wrong password")
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return "", apperr.Wrap(apperr.Unknown, "could not issue token", err)
	}
	return token, nil
}
