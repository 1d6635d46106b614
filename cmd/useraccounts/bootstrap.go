package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"useraccounts/internal/app/users"
	"useraccounts/internal/store"
)

const (
	demoUsername = "demo"
	demoPassword = "demo123"
)

// bootstrapDemoUser registers the demo account unless it already exists.
func bootstrapDemoUser(ctx context.Context, svc users.Service, logger zerolog.Logger) error {
	err := svc.Register(ctx, users.RegisterRequest{
		Username:        demoUsername,
		Password:        demoPassword,
		PasswordConfirm: demoPassword,
	})
	switch {
	case err == nil:
		logger.Info().Str("username", demoUsername).Msg("Demo account created")
	case errors.Is(err, store.ErrUserExists):
	default:
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}
