package guard

import (
	"testing"

	"evently/server/internal/constants"
	"evently/server/internal/session"
)

func settledView(user *session.User, role constants.Role) session.View {
	return session.View{User: user, Role: role, IsLoading: false}
}

func TestEvaluateNeverRedirectsWhileLoading(t *testing.T) {
	// Whatever stale identity the view carries, loading means wait.
	views := []session.View{
		{IsLoading: true},
		{IsLoading: true, User: &session.User{ID: "u1"}},
		{IsLoading: true, User: &session.User{ID: "u1"}, Role: constants.RoleAdmin},
	}

	for _, v := range views {
		for _, required := range []constants.Role{constants.RoleAttendee, constants.RoleOrganizer, constants.RoleAdmin} {
			res := Evaluate(v, required)
			if res.Decision != Wait {
				t.Errorf("Evaluate(loading, %s) = %v, want Wait", required, res.Decision)
			}
			if res.RedirectTo != "" {
				t.Errorf("a waiting decision must not carry a redirect, got %q", res.RedirectTo)
			}
		}
		if res := EvaluateAny(v); res.Decision != Wait {
			t.Errorf("EvaluateAny(loading) = %v, want Wait", res.Decision)
		}
	}
}

func TestEvaluateSettledDecisions(t *testing.T) {
	user := &session.User{ID: "u1", Email: "ada@example.com"}

	tests := []struct {
		name       string
		view       session.View
		required   constants.Role
		decision   Decision
		redirectTo string
	}{
		{"signed out", settledView(nil, ""), constants.RoleAttendee, Redirect, LoginPath},
		{"orphaned account goes to role picker", settledView(user, ""), constants.RoleAttendee, Redirect, SelectRolePath},
		{"wrong role", settledView(user, constants.RoleAttendee), constants.RoleOrganizer, Redirect, LoginPath},
		{"matching role", settledView(user, constants.RoleOrganizer), constants.RoleOrganizer, Proceed, ""},
		{"admin page for admin", settledView(user, constants.RoleAdmin), constants.RoleAdmin, Proceed, ""},
		{"admin page for attendee", settledView(user, constants.RoleAttendee), constants.RoleAdmin, Redirect, LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.view, tt.required)
			if res.Decision != tt.decision {
				t.Errorf("decision = %v, want %v", res.Decision, tt.decision)
			}
			if res.RedirectTo != tt.redirectTo {
				t.Errorf("redirectTo = %q, want %q", res.RedirectTo, tt.redirectTo)
			}
		})
	}
}

func TestEvaluateAny(t *testing.T) {
	user := &session.User{ID: "u1"}

	if res := EvaluateAny(settledView(nil, "")); res.Decision != Redirect || res.RedirectTo != LoginPath {
		t.Errorf("signed out: got %+v, want redirect to %s", res, LoginPath)
	}
	if res := EvaluateAny(settledView(user, "")); res.Decision != Redirect || res.RedirectTo != SelectRolePath {
		t.Errorf("roleless: got %+v, want redirect to %s", res, SelectRolePath)
	}
	for _, role := range []constants.Role{constants.RoleAttendee, constants.RoleOrganizer, constants.RoleAdmin} {
		if res := EvaluateAny(settledView(user, role)); res.Decision != Proceed {
			t.Errorf("EvaluateAny(%s) = %v, want Proceed", role, res.Decision)
		}
	}
}

func TestLandingPath(t *testing.T) {
	user := &session.User{ID: "u1"}

	tests := []struct {
		view session.View
		want string
	}{
		{settledView(nil, ""), LoginPath},
		{settledView(user, ""), SelectRolePath},
		{settledView(user, constants.RoleAttendee), "/events"},
		{settledView(user, constants.RoleOrganizer), "/organizer"},
		{settledView(user, constants.RoleAdmin), "/admin"},
	}
	for _, tt := range tests {
		if got := LandingPath(tt.view); got != tt.want {
			t.Errorf("LandingPath(%+v) = %q, want %q", tt.view, got, tt.want)
		}
	}
}
