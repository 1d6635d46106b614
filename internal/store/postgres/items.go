package postgres

import (
	"context"
	"database/sql"
	"errors"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// AddItem inserts itemID into the user's collection unless it is already a
// member. The user row is locked for the duration of the transaction so the
// capacity check and the insert cannot interleave with another writer.
func (s *Store) AddItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string, limit int) ([]string, error) {
	if !kind.Valid() {
		return nil, store.ErrUnknownCollection
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Failure("begin tx", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := lockUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	var member bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_items
			WHERE user_id = $1 AND kind = $2 AND item_id = $3
		)
	`, userID, string(kind), itemID).Scan(&member); err != nil {
		return nil, store.Failure("check item", err)
	}

	if !member {
		var count int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM user_items
			WHERE user_id = $1 AND kind = $2
		`, userID, string(kind)).Scan(&count); err != nil {
			return nil, store.Failure("count items", err)
		}
		if count >= limit {
			return nil, store.ErrCollectionFull
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_items (user_id, kind, item_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, kind, item_id) DO NOTHING
		`, userID, string(kind), itemID); err != nil {
			return nil, store.Failure("insert item", err)
		}
	}

	items, err := listItems(ctx, tx, userID, kind)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, store.Failure("commit tx", err)
	}
	tx = nil

	return items, nil
}

// RemoveItem deletes itemID from the user's collection. Removing a non-member
// is not an error.
func (s *Store) RemoveItem(ctx context.Context, userID string, kind models.CollectionKind, itemID string) ([]string, error) {
	if !kind.Valid() {
		return nil, store.ErrUnknownCollection
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Failure("begin tx", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := lockUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM user_items
		WHERE user_id = $1 AND kind = $2 AND item_id = $3
	`, userID, string(kind), itemID); err != nil {
		return nil, store.Failure("delete item", err)
	}

	items, err := listItems(ctx, tx, userID, kind)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, store.Failure("commit tx", err)
	}
	tx = nil

	return items, nil
}

func lockUser(ctx context.Context, tx *sql.Tx, userID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidIdentifier(err) {
			return store.ErrUserNotFound
		}
		return store.Failure("lock user", err)
	}
	return nil
}

func listItems(ctx context.Context, q queryer, userID string, kind models.CollectionKind) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT item_id
		FROM user_items
		WHERE user_id = $1 AND kind = $2
		ORDER BY id ASC
	`, userID, string(kind))
	if err != nil {
		return nil, store.Failure("select items", err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, store.Failure("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failure("iterate items", err)
	}
	return items, nil
}
