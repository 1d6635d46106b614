// Package auth holds the authentication core: bcrypt password hashing,
// signed session tokens and the authorization pipeline that turns an
// Authorization header into a confirmed identity.
package auth

import "useraccounts/internal/apperr"

var (
	// ErrNoToken indicates the request carried no usable JWT credential.
	ErrNoToken = apperr.New(apperr.Auth, "no auth token")
	// ErrInvalidSignature indicates the token was not signed with our key or algorithm.
	ErrInvalidSignature = apperr.New(apperr.Auth, "invalid token signature")
	// ErrExpired indicates the token is past its expiry.
	ErrExpired = apperr.New(apperr.Auth, "token expired")
	// ErrMalformed indicates the token could not be decoded into session claims.
	ErrMalformed = apperr.New(apperr.Auth, "malformed token")
	// ErrUnknownUser indicates a valid token for a user that no longer exists.
	ErrUnknownUser = apperr.New(apperr.Auth, "unknown user")

	ErrMissingSecret = apperr.New(apperr.Config, "token secret is required")
	ErrEmptyPassword = apperr.New(apperr.Hash, "password is required")
)
