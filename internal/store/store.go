// Package store defines the Credential Store port shared by the account
// services and its error vocabulary. Implementations live in the postgres,
// mongo and memory subpackages.
package store

import (
	"context"

	"useraccounts/internal/apperr"
	"useraccounts/shared/go/models"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = apperr.New(apperr.Conflict, "User Name already taken")
	// ErrUserNotFound indicates no user matches the identifier or username.
	ErrUserNotFound = apperr.New(apperr.NotFound, "user not found")
	// ErrCollectionFull indicates the collection already holds the maximum number of members.
	ErrCollectionFull = apperr.New(apperr.Limit, "limit reached")
	// ErrUnknownCollection indicates a collection kind the store does not hold.
	ErrUnknownCollection = apperr.New(apperr.Validation, "unknown collection")
	// ErrIncompleteUser rejects a user record without username or password hash.
	ErrIncompleteUser = apperr.New(apperr.Validation, "username and password are required")
)

// Store persists one record per user. Every implementation must make AddItem
// and RemoveItem atomic with respect to concurrent calls for the same user,
// and AddItem must refuse to grow a collection past limit.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	AddItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string, limit int) ([]string, error)
	RemoveItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string) ([]string, error)
}

// Failure wraps an unexpected persistence error so it surfaces with the
// store kind while keeping the cause for logs.
func Failure(op string, err error) error {
	return apperr.Wrap(apperr.Store, op, err)
}
