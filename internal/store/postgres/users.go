package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// CreateUser inserts a user with empty collections.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return nil, store.ErrIncompleteUser
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Favourites:   []string{},
		History:      []string{},
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrUserExists
		}
		return nil, store.Failure("insert user", err)
	}

	return user, nil
}

// UserByUsername loads a user and both collections by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.Failure("lookup user", err)
	}

	if err := s.loadCollections(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID loads a user and both collections by identifier.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidIdentifier(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.Failure("lookup user", err)
	}

	if err := s.loadCollections(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) loadCollections(ctx context.Context, user *models.User) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, item_id
		FROM user_items
		WHERE user_id = $1
		ORDER BY id ASC
	`, user.ID)
	if err != nil {
		return store.Failure("select items", err)
	}
	defer rows.Close()

	user.Favourites = []string{}
	user.History = []string{}
	for rows.Next() {
		var kind, item string
		if err := rows.Scan(&kind, &item); err != nil {
			return store.Failure("scan item", err)
		}
		switch models.CollectionKind(kind) {
		case models.CollectionFavourites:
			user.Favourites = append(user.Favourites, item)
		case models.CollectionHistory:
			user.History = append(user.History, item)
		default:
			return store.Failure("scan item", fmt.Errorf("unexpected collection %q", kind))
		}
	}
	if err := rows.Err(); err != nil {
		return store.Failure("iterate items", err)
	}
	return nil
}
