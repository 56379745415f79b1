package session

import "fmt"

// The controller never panics or throws across its boundary; every
// operation returns exactly one of these so calling surfaces can render
// a message without inspecting store internals.

// ValidationError is a request rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// CredentialError is a sign-in rejected by the account store.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string { return "sign-in rejected: " + e.Err.Error() }
func (e *CredentialError) Unwrap() error { return e.Err }

// AccountCreationError is a sign-up rejected at the account level.
type AccountCreationError struct {
	Err error
}

func (e *AccountCreationError) Error() string { return "account creation failed: " + e.Err.Error() }
func (e *AccountCreationError) Unwrap() error { return e.Err }

// ProfileCreationError means the account exists but its profile row
// could not be written. The controller signs the account back out before
// returning this, so the half-created identity never operates.
type ProfileCreationError struct {
	Err error
}

func (e *ProfileCreationError) Error() string { return "profile creation failed: " + e.Err.Error() }
func (e *ProfileCreationError) Unwrap() error { return e.Err }

// ProfileFetchError is a failed profile lookup during session
// resolution. Non-fatal: the controller degrades the session instead of
// blocking, so this only ever reaches the logs.
type ProfileFetchError struct {
	AccountID string
	Err       error
}

func (e *ProfileFetchError) Error() string {
	return "profile fetch failed for account " + e.AccountID + ": " + e.Err.Error()
}
func (e *ProfileFetchError) Unwrap() error { return e.Err }

// RoleUpdateError is a role selection rejected by the store, or refused
// locally because a role is already set.
type RoleUpdateError struct {
	Reason string
	Err    error
}

func (e *RoleUpdateError) Error() string {
	if e.Err != nil {
		return "role update failed: " + e.Err.Error()
	}
	return "role update refused: " + e.Reason
}
func (e *RoleUpdateError) Unwrap() error { return e.Err }
