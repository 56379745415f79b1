// Package guard implements the three-state page gate every protected
// surface runs against the session view. The contract: while the view
// is loading, wait and do nothing identity-gated; once settled, either
// send the viewer to an entry point or let the page proceed. A redirect
// while loading is forbidden — the transient signed-out state during
// startup would bounce legitimate viewers.
package guard

import (
	"evently/server/internal/constants"
	"evently/server/internal/session"
)

type Decision int

const (
	// Wait: render a neutral waiting state, no redirect, no
	// identity-gated fetches.
	Wait Decision = iota
	// Redirect: the viewer cannot see this page; send them to
	// RedirectTo and render nothing else.
	Redirect
	// Proceed: identity and role check out, fetch and render.
	Proceed
)

const (
	LoginPath      = "/login"
	SelectRolePath = "/select-role"
)

type Result struct {
	Decision   Decision
	RedirectTo string
}

// Evaluate gates a page that requires one specific role.
func Evaluate(v session.View, required constants.Role) Result {
	if v.IsLoading {
		return Result{Decision: Wait}
	}
	if v.User == nil {
		return Result{Decision: Redirect, RedirectTo: LoginPath}
	}
	if v.Role == "" {
		// Authenticated but roleless (orphaned account or pre-selection):
		// the role picker, not the login form.
		return Result{Decision: Redirect, RedirectTo: SelectRolePath}
	}
	if v.Role != required {
		return Result{Decision: Redirect, RedirectTo: LoginPath}
	}
	return Result{Decision: Proceed}
}

// EvaluateAny gates a page that only requires a signed-in viewer with
// some role.
func EvaluateAny(v session.View) Result {
	if v.IsLoading {
		return Result{Decision: Wait}
	}
	if v.User == nil {
		return Result{Decision: Redirect, RedirectTo: LoginPath}
	}
	if v.Role == "" {
		return Result{Decision: Redirect, RedirectTo: SelectRolePath}
	}
	return Result{Decision: Proceed}
}

// LandingPath is where a freshly settled session should land.
func LandingPath(v session.View) string {
	if v.User == nil {
		return LoginPath
	}
	switch v.Role {
	case constants.RoleAdmin:
		return "/admin"
	case constants.RoleOrganizer:
		return "/organizer"
	case constants.RoleAttendee:
		return "/events"
	default:
		return SelectRolePath
	}
}
