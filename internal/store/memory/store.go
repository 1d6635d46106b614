// Package memory provides an in-process credential store. It backs the
// service when STORE_DRIVER=memory and is the fake used by the service tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

var _ store.Store = (*Store)(nil)

// Store keeps users in maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string
	now        func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return nil, store.ErrIncompleteUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[username]; ok {
		return nil, store.ErrUserExists
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Favourites:   []string{},
		History:      []string{},
		CreatedAt:    s.now().UTC(),
	}
	s.byID[user.ID] = user
	s.byUsername[username] = user.ID

	return clone(user), nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return clone(user), nil
}

func (s *Store) AddItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collection(userID, kind)
	if err != nil {
		return nil, err
	}
	for _, existing := range *items {
		if existing == itemID {
			return copyItems(*items), nil
		}
	}
	if len(*items) >= limit {
		return nil, store.ErrCollectionFull
	}
	*items = append(*items, itemID)

	return copyItems(*items), nil
}

func (s *Store) RemoveItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.collection(userID, kind)
	if err != nil {
		return nil, err
	}
	kept := (*items)[:0]
	for _, existing := range *items {
		if existing != itemID {
			kept = append(kept, existing)
		}
	}
	*items = kept

	return copyItems(*items), nil
}

// DeleteUser removes a user. Tokens already issued for that user stop
// authorizing on their next use.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return store.ErrUserNotFound
	}
	delete(s.byUsername, user.Username)
	delete(s.byID, id)
	return nil
}

// collection must be called with s.mu held.
func (s *Store) collection(userID string, kind models.CollectionKind) (*[]string, error) {
	user, ok := s.byID[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	switch kind {
	case models.CollectionFavourites:
		return &user.Favourites, nil
	case models.CollectionHistory:
		return &user.History, nil
	default:
		return nil, store.ErrUnknownCollection
	}
}

func clone(u *models.User) *models.User {
	c := *u
	c.Favourites = copyItems(u.Favourites)
	c.History = copyItems(u.History)
	return &c
}

func copyItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
