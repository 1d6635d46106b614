package auth

import (
	"context"
	"errors"
	"strings"

	"useraccounts/internal/store"
	"useraccounts/shared/go/models"
)

// Scheme is the Authorization header keyword that precedes the token.
const Scheme = "JWT"

// UserLookup resolves a token subject to a stored account.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Authorizer confirms that a request credential names a live account.
type Authorizer struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthorizer wires an Authorizer.
func NewAuthorizer(tokens *TokenManager, users UserLookup) *Authorizer {
	return &Authorizer{tokens: tokens, users: users}
}

// ExtractToken returns the token of an "Authorization: JWT <token>" header.
func ExtractToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], Scheme) {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Authorize verifies the header's token and confirms the account still
// exists. The identity is taken from the stored record, not the claims.
func (a *Authorizer) Authorize(ctx context.Context, header string) (Identity, error) {
	token, err := ExtractToken(header)
	if err != nil {
		return Identity{}, err
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	user, err := a.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return Identity{}, ErrUnknownUser
		}
		return Identity{}, err
	}

	return Identity{ID: user.ID, Username: user.Username}, nil
}
