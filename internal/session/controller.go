package session

import (
	"context"
	"sync"
	"sync/atomic"

	"evently/server/internal/constants"
	"evently/server/internal/logging"
	"evently/server/internal/store"
)

// Controller owns the settled {user, role, isLoading} triple for one
// browser session. The session-change subscription opened at
// construction is the only writer of settled state; operations mutate
// the store and let the resulting event finish the transition. The one
// sanctioned exception is SelectRole's optimistic write, because
// changing a profile role does not move the account session and no
// event would ever fire.
//
// Every settled write carries a sequence number allocated when its
// triggering event or operation starts; a write whose sequence is below
// the last applied one is discarded, so a slow stale profile fetch can
// never overwrite the outcome of a later event.
type Controller struct {
	store store.Client

	mu          sync.Mutex
	user        *User
	role        constants.Role
	isLoading   bool
	lastApplied uint64

	seq         atomic.Uint64
	unsubscribe func()
	closeOnce   sync.Once
}

// NewController subscribes to the client's session-change stream and
// starts in the loading state. Callers must Close the controller to
// tear the subscription down.
func NewController(st store.Client) *Controller {
	c := &Controller{
		store:     st,
		isLoading: true,
	}
	c.unsubscribe = st.OnSessionChange(c.handleSessionChange)
	return c
}

// Close cancels the session-change subscription. Idempotent.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
	})
}

// State returns a snapshot of the settled triple.
func (c *Controller) State() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{Role: c.role, IsLoading: c.isLoading}
	if c.user != nil {
		u := *c.user
		view.User = &u
	}
	return view
}

// handleSessionChange resolves the profile for the announced session
// and settles the triple. It always leaves isLoading false, whatever
// the profile fetch did.
func (c *Controller) handleSessionChange(sess *store.Session) {
	seq := c.seq.Add(1)

	if sess == nil {
		c.apply(seq, nil, "")
		return
	}

	user, role := c.resolveProfile(context.Background(), sess.Account)
	c.apply(seq, user, role)
}

// resolveProfile fetches the profile row for an account. "No rows" is
// the orphaned-account state, not a failure; a hard fetch error
// degrades to a cleared session rather than wedging the loading state.
func (c *Controller) resolveProfile(ctx context.Context, acct store.Account) (*User, constants.Role) {
	row, err := c.store.SelectOne(ctx, "users", store.Row{"account_id": acct.ID})
	if err == nil {
		u := userFromProfileRow(acct, row)
		return u, u.Role
	}

	if store.IsNoRows(err) {
		return orphanUser(acct), ""
	}

	ferr := &ProfileFetchError{AccountID: acct.ID, Err: err}
	logging.Error("degrading session", "error", ferr.Error())
	return nil, ""
}

// apply installs a settled triple unless a later write already landed.
func (c *Controller) apply(seq uint64, user *User, role constants.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.lastApplied {
		logging.Debug("discarding stale session write", "seq", seq, "last_applied", c.lastApplied)
		return
	}
	c.lastApplied = seq
	c.user = user
	c.role = role
	c.isLoading = false
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.isLoading = v
	c.mu.Unlock()
}

// SignIn checks credentials against the account store. On success it
// returns before the triple settles; the pending session-change event
// populates user and role. Callers must not read State synchronously
// and expect the new identity.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	c.setLoading(true)

	if err := c.store.Authenticate(ctx, email, password); err != nil {
		// No session event will fire for a rejected sign-in.
		c.setLoading(false)
		return &CredentialError{Err: err}
	}
	return nil
}

// SignUp creates the account, then its profile row. Organization fields
// are normalized to null for non-organizers even when supplied. If the
// profile insert fails after the account was created, the account is
// signed back out so the orphaned identity cannot operate with no role
// and no self-heal path.
func (c *Controller) SignUp(ctx context.Context, draft ProfileDraft, role constants.Role, password string) error {
	if draft.Email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}

	c.setLoading(true)

	acct, err := c.store.CreateAccount(ctx, draft.Email, password)
	if err != nil {
		c.setLoading(false)
		return &AccountCreationError{Err: err}
	}

	record := store.Row{
		"account_id":          acct.ID,
		"email":               draft.Email,
		"display_name":        draft.Name,
		"role":                string(role),
		"organization_name":   nil,
		"bio":                 nil,
		"profile_picture_url": draft.ProfilePictureURL,
	}
	if role == constants.RoleOrganizer {
		record["organization_name"] = draft.OrganizationName
		record["bio"] = draft.Bio
	}

	if _, err := c.store.InsertOne(ctx, "users", record); err != nil {
		// Compensating sign-out; its own failure is deliberately not
		// surfaced on top of the one being returned.
		_ = c.store.SignOut(ctx)
		c.setLoading(false)
		return &ProfileCreationError{Err: err}
	}

	// The account-creation event may have been resolved before the
	// profile row existed; re-emit so the later event settles with it.
	_ = c.store.Refresh(ctx)
	return nil
}

// SelectRole is the first-time self-service role choice. It requires a
// settled user with no role, updates the profile row, and applies the
// new role locally without waiting for an event. Admin reassignment is
// a separate, separately-authorized operation elsewhere.
func (c *Controller) SelectRole(ctx context.Context, role constants.Role) error {
	c.mu.Lock()
	user := c.user
	current := c.role
	c.mu.Unlock()

	if user == nil {
		return &ValidationError{Field: "session", Reason: constants.MsgNoActiveUser}
	}
	if current != "" {
		return &RoleUpdateError{Reason: constants.MsgRoleAlreadySet}
	}
	if !role.IsValid() {
		return &ValidationError{Field: "role", Reason: "unknown role " + role.String()}
	}

	err := c.store.UpdateOne(ctx, "users",
		store.Row{"account_id": user.ID},
		store.Row{"role": string(role)},
	)
	if err != nil {
		return &RoleUpdateError{Err: err}
	}

	seq := c.seq.Add(1)
	c.mu.Lock()
	if seq >= c.lastApplied {
		c.lastApplied = seq
		c.role = role
		if c.user != nil {
			c.user.Role = role
		}
	}
	c.mu.Unlock()
	return nil
}

// Logout asks the store to close the session and leaves the clearing of
// user and role to the resulting session-change event.
func (c *Controller) Logout(ctx context.Context) error {
	return c.store.SignOut(ctx)
}
