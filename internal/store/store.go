package store

import (
	"context"
	"errors"
)

// Row is a single table row in storage convention (snake_case columns).
// Callers translate to application field names themselves.
type Row map[string]any

// Account is the identity record owned by the account side of the store.
// The application never sees credentials, only this projection.
type Account struct {
	ID            string
	Email         string
	EmailVerified bool
}

// Session is what a session-change notification carries. A nil *Session
// means "no active account".
type Session struct {
	Token   string
	Account Account
}

// Error is the structured error shape every store call returns. The
// no_rows code is the only one callers are allowed to branch on; all
// other codes are surfaced verbatim.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

const (
	CodeNoRows             = "no_rows"
	CodeConflict           = "conflict"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidSession     = "invalid_session"
	CodeBadRequest         = "bad_request"
	CodeInternal           = "internal"
)

// IsNoRows reports whether err is the store's "query matched nothing"
// result, as opposed to a hard failure.
func IsNoRows(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == CodeNoRows
}

// CodeOf extracts the structured code from a store error, or internal
// for anything unrecognized.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// Client is the per-browser-session facade over the account/row store.
// One Client is bound per client key; its session-change stream only
// carries events for that client.
type Client interface {
	// CreateAccount registers credentials and signs the new account in,
	// emitting a session-change event.
	CreateAccount(ctx context.Context, email, password string) (*Account, error)

	// Authenticate checks credentials and, on success, opens a session
	// and emits a session-change event. It does not return the session.
	Authenticate(ctx context.Context, email, password string) error

	// SignOut closes the active session and emits an empty
	// session-change event.
	SignOut(ctx context.Context) error

	// Refresh re-emits the current session state (token refresh).
	Refresh(ctx context.Context) error

	// Restore validates a persisted session token and emits its session.
	// An invalid or revoked token emits the empty session.
	Restore(ctx context.Context, token string) error

	// OnSessionChange subscribes fn to this client's session stream.
	// Events are delivered one at a time, in emission order. The
	// returned func cancels the subscription and is safe to call twice.
	OnSessionChange(fn func(*Session)) (unsubscribe func())

	// SelectOne fetches a single row matching filter, or a no_rows error.
	SelectOne(ctx context.Context, table string, filter Row) (Row, error)

	// InsertOne inserts record and returns the stored row.
	InsertOne(ctx context.Context, table string, record Row) (Row, error)

	// UpdateOne applies patch to the rows matching filter. Matching
	// nothing is a no_rows error.
	UpdateOne(ctx context.Context, table string, filter, patch Row) error
}
