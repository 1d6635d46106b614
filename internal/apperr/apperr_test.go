package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	sentinel := New(Conflict, "username already taken")
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "sentinel", err: sentinel, want: Conflict},
		{name: "wrapped sentinel", err: fmt.Errorf("create user: %w", sentinel), want: Conflict},
		{name: "wrapped cause", err: Wrap(Store, "create user", cause), want: Store},
		{name: "plain error", err: cause, want: Unknown},
		{name: "nil", err: nil, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageHidesCause(t *testing.T) {
	cause := errors.New("pq: relation users does not exist")
	err := fmt.Errorf("register: %w", Wrap(Store, "could not create user", cause))

	if got := Message(err); got != "could not create user" {
		t.Errorf("Message() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost from chain: %v", err)
	}
	if got := Message(cause); got != "internal error" {
		t.Errorf("Message(unclassified) = %q", got)
	}
}

func TestJoinedErrorsKeepFirstKind(t *testing.T) {
	public := New(Auth, "invalid username or password")
	internal := New(NotFound, "user not found")
	err := fmt.Errorf("%w: %w", public, internal)

	if KindOf(err) != Auth {
		t.Errorf("KindOf() = %v, want auth", KindOf(err))
	}
	if Message(err) != "invalid username or password" {
		t.Errorf("Message() = %q", Message(err))
	}
	if !errors.Is(err, internal) {
		t.Error("internal reason should stay reachable")
	}
}

func TestKindString(t *testing.T) {
	if Limit.String() != "limit" {
		t.Errorf("Limit.String() = %q", Limit.String())
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("out of range kind = %q", Kind(200).String())
	}
}
