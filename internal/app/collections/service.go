package collections

import (
	"context"
	"errors"
	"strings"

	"useraccounts/internal/apperr"
	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// ErrMissingData rejects an operation without a user or item identifier.
var ErrMissingData = apperr.New(apperr.Validation, "Missing id or item id")

// Store defines persistence operations for per-user ID collections.
type Store interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	AddItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string, limit int) ([]string, error)
	RemoveItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string) ([]string, error)
}

// Service manages one bounded collection (favourites or history) for every user.
type Service interface {
	Kind() models.CollectionKind
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, itemID string) ([]string, error)
	Remove(ctx context.Context, userID, itemID string) ([]string, error)
}

type service struct {
	store Store
	kind  models.CollectionKind
	limit int
}

// New constructs a collections Service for kind. A non-positive limit
// selects models.CollectionLimit.
func New(store Store, kind models.CollectionKind, limit int) Service {
	if limit <= 0 {
		limit = models.CollectionLimit
	}
	return &service{
		store: store,
		kind:  kind,
		limit: limit,
	}
}

func (s *service) Kind() models.CollectionKind { return s.kind }

func (s *service) List(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingData
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, classify("could not load collection", err)
	}
	return user.Items(s.kind), nil
}

func (s *service) Add(ctx context.Context, userID, itemID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(itemID) == "" {
		return nil, ErrMissingData
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, classify("could not load collection", err)
	}
	if len(user.Items(s.kind)) >= s.limit {
		return nil, store.ErrCollectionFull
	}

	items, err := s.store.AddItem(ctx, userID, s.kind, itemID, s.limit)
	if err != nil {
		return nil, classify("could not update collection", err)
	}
	return items, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(itemID) == "" {
		return nil, ErrMissingData
	}

	items, err := s.store.RemoveItem(ctx, userID, s.kind, itemID)
	if err != nil {
		return nil, classify("could not update collection", err)
	}
	return items, nil
}

// classify passes classified errors through and wraps anything else as a
// store failure.
func classify(msg string, err error) error {
	if apperr.KindOf(err) != apperr.Unknown || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return store.Failure(msg, err)
}
