package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"evently/server/internal/constants"
	"evently/server/internal/store"
)

// fakeClient is an in-memory store.Client whose emissions run the
// subscriber synchronously, so tests observe settled state without
// sleeping.
type fakeClient struct {
	mu sync.Mutex
	fn func(*store.Session)

	createAccountFunc func(ctx context.Context, email, password string) (*store.Account, error)
	authenticateFunc  func(ctx context.Context, email, password string) error
	selectOneFunc     func(table string, filter store.Row) (store.Row, error)
	insertOneFunc     func(table string, record store.Row) (store.Row, error)
	updateOneFunc     func(table string, filter, patch store.Row) error

	active       *store.Session
	signOutCalls int
	refreshCalls int
	insertedRows []store.Row
	updatedRows  []store.Row
}

func (f *fakeClient) OnSessionChange(fn func(*store.Session)) func() {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.fn = nil
		f.mu.Unlock()
	}
}

func (f *fakeClient) emit(sess *store.Session) {
	f.mu.Lock()
	f.active = sess
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn(sess)
	}
}

func (f *fakeClient) CreateAccount(ctx context.Context, email, password string) (*store.Account, error) {
	acct, err := f.createAccountFunc(ctx, email, password)
	if err != nil {
		return nil, err
	}
	f.emit(&store.Session{Token: "token-" + acct.ID, Account: *acct})
	return acct, nil
}

func (f *fakeClient) Authenticate(ctx context.Context, email, password string) error {
	if err := f.authenticateFunc(ctx, email, password); err != nil {
		return err
	}
	f.emit(&store.Session{Token: "token", Account: store.Account{ID: "acct-1", Email: email}})
	return nil
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	f.mu.Unlock()
	f.emit(nil)
	return nil
}

func (f *fakeClient) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.refreshCalls++
	sess := f.active
	f.mu.Unlock()
	f.emit(sess)
	return nil
}

func (f *fakeClient) Restore(ctx context.Context, token string) error {
	f.emit(nil)
	return &store.Error{Code: store.CodeInvalidSession, Message: "rejected"}
}

func (f *fakeClient) SelectOne(ctx context.Context, table string, filter store.Row) (store.Row, error) {
	return f.selectOneFunc(table, filter)
}

func (f *fakeClient) InsertOne(ctx context.Context, table string, record store.Row) (store.Row, error) {
	f.mu.Lock()
	f.insertedRows = append(f.insertedRows, record)
	f.mu.Unlock()
	return f.insertOneFunc(table, record)
}

func (f *fakeClient) UpdateOne(ctx context.Context, table string, filter, patch store.Row) error {
	f.mu.Lock()
	f.updatedRows = append(f.updatedRows, patch)
	f.mu.Unlock()
	return f.updateOneFunc(table, filter, patch)
}

func noRows() error {
	return &store.Error{Code: store.CodeNoRows, Message: "no rows matched"}
}

func profileRow(role string) store.Row {
	return store.Row{
		"account_id":   "acct-1",
		"display_name": "Ada",
		"role":         role,
	}
}

func TestControllerStartsLoading(t *testing.T) {
	fake := &fakeClient{}
	c := NewController(fake)
	defer c.Close()

	view := c.State()
	if !view.IsLoading {
		t.Fatal("expected a fresh controller to be loading")
	}
	if view.User != nil || view.Role != "" {
		t.Errorf("expected empty identity while loading, got user=%v role=%q", view.User, view.Role)
	}
}

func TestSignInSettlesUserAndRole(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return profileRow("attendee"), nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	view := c.State()
	if view.IsLoading {
		t.Fatal("expected settled state after sign-in event")
	}
	if view.User == nil || view.User.Name != "Ada" {
		t.Fatalf("expected profile user, got %+v", view.User)
	}
	if view.Role != constants.RoleAttendee {
		t.Errorf("expected role attendee, got %q", view.Role)
	}
}

func TestSignInRejectedClearsLoading(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error {
			return &store.Error{Code: store.CodeInvalidCredentials, Message: "nope"}
		},
	}
	c := NewController(fake)
	defer c.Close()

	err := c.SignIn(context.Background(), "ada@example.com", "wrong")
	var cerr *CredentialError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CredentialError, got %v", err)
	}

	view := c.State()
	if view.IsLoading {
		t.Error("a rejected sign-in must not leave the view loading")
	}
	if view.User != nil {
		t.Error("a rejected sign-in must not install a user")
	}
}

func TestSignUpOrganizerKeepsOrganizationFields(t *testing.T) {
	fake := &fakeClient{
		createAccountFunc: func(ctx context.Context, email, password string) (*store.Account, error) {
			return &store.Account{ID: "acct-1", Email: email}, nil
		},
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return store.Row{
				"account_id":        "acct-1",
				"display_name":      "Ada",
				"role":              "organizer",
				"organization_name": "AdaCo",
			}, nil
		},
		insertOneFunc: func(table string, record store.Row) (store.Row, error) { return record, nil },
	}
	c := NewController(fake)
	defer c.Close()

	draft := ProfileDraft{Email: "ada@example.com", Name: "Ada", OrganizationName: "AdaCo", Bio: "events"}
	if err := c.SignUp(context.Background(), draft, constants.RoleOrganizer, "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if len(fake.insertedRows) != 1 {
		t.Fatalf("expected one profile insert, got %d", len(fake.insertedRows))
	}
	record := fake.insertedRows[0]
	if record["organization_name"] != "AdaCo" {
		t.Errorf("organizer signup must keep organization_name, got %v", record["organization_name"])
	}
	if fake.refreshCalls != 1 {
		t.Errorf("expected one refresh after profile insert, got %d", fake.refreshCalls)
	}

	view := c.State()
	if view.Role != constants.RoleOrganizer {
		t.Errorf("expected settled organizer role, got %q", view.Role)
	}
}

func TestSignUpAttendeeDropsOrganizationFields(t *testing.T) {
	fake := &fakeClient{
		createAccountFunc: func(ctx context.Context, email, password string) (*store.Account, error) {
			return &store.Account{ID: "acct-1", Email: email}, nil
		},
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return profileRow("attendee"), nil
		},
		insertOneFunc: func(table string, record store.Row) (store.Row, error) { return record, nil },
	}
	c := NewController(fake)
	defer c.Close()

	draft := ProfileDraft{Email: "ada@example.com", Name: "Ada", OrganizationName: "ShouldGo", Bio: "ShouldGo"}
	if err := c.SignUp(context.Background(), draft, constants.RoleAttendee, "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	record := fake.insertedRows[0]
	if record["organization_name"] != nil || record["bio"] != nil {
		t.Errorf("attendee signup must null organization fields, got org=%v bio=%v",
			record["organization_name"], record["bio"])
	}
}

func TestSignUpEmptyEmailFailsWithoutNetwork(t *testing.T) {
	fake := &fakeClient{
		createAccountFunc: func(ctx context.Context, email, password string) (*store.Account, error) {
			t.Fatal("CreateAccount must not be called for an empty email")
			return nil, nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	err := c.SignUp(context.Background(), ProfileDraft{Name: "Ada"}, constants.RoleAttendee, "hunter22")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSignUpProfileFailureSignsAccountBackOut(t *testing.T) {
	fake := &fakeClient{
		createAccountFunc: func(ctx context.Context, email, password string) (*store.Account, error) {
			return &store.Account{ID: "acct-1", Email: email}, nil
		},
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return nil, noRows()
		},
		insertOneFunc: func(table string, record store.Row) (store.Row, error) {
			return nil, &store.Error{Code: store.CodeInternal, Message: "insert failed"}
		},
	}
	c := NewController(fake)
	defer c.Close()

	err := c.SignUp(context.Background(), ProfileDraft{Email: "ada@example.com", Name: "Ada"}, constants.RoleAttendee, "hunter22")
	var perr *ProfileCreationError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProfileCreationError, got %v", err)
	}
	if fake.signOutCalls != 1 {
		t.Fatalf("expected a compensating sign-out, got %d calls", fake.signOutCalls)
	}

	view := c.State()
	if view.IsLoading || view.User != nil {
		t.Errorf("expected settled signed-out view, got loading=%v user=%v", view.IsLoading, view.User)
	}
}

func TestMissingProfileSettlesAsOrphanedAccount(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return nil, noRows()
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	view := c.State()
	if view.IsLoading {
		t.Fatal("expected settled state")
	}
	if view.User == nil {
		t.Fatal("an account without a profile row is still a user")
	}
	if view.Role != "" {
		t.Errorf("orphaned account must have no role, got %q", view.Role)
	}
	if view.User.Name != "ada" {
		t.Errorf("orphan display name should fall back to the email local part, got %q", view.User.Name)
	}
}

func TestProfileFetchFailureDegradesToSignedOut(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return nil, &store.Error{Code: store.CodeInternal, Message: "connection reset"}
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	view := c.State()
	if view.IsLoading {
		t.Fatal("a failed profile fetch must still settle the view")
	}
	if view.User != nil || view.Role != "" {
		t.Errorf("expected degraded signed-out view, got user=%v role=%q", view.User, view.Role)
	}
}

func TestSelectRoleFirstTime(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return nil, noRows()
		},
		updateOneFunc: func(table string, filter, patch store.Row) error { return nil },
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if err := c.SelectRole(context.Background(), constants.RoleOrganizer); err != nil {
		t.Fatalf("SelectRole failed: %v", err)
	}
	if len(fake.updatedRows) != 1 || fake.updatedRows[0]["role"] != "organizer" {
		t.Fatalf("expected a role patch, got %v", fake.updatedRows)
	}

	// The role lands locally without waiting for a session event.
	view := c.State()
	if view.Role != constants.RoleOrganizer {
		t.Errorf("expected optimistic role organizer, got %q", view.Role)
	}
	if view.User == nil || view.User.Role != constants.RoleOrganizer {
		t.Errorf("expected user role updated in place, got %+v", view.User)
	}
}

func TestSelectRoleRefusesOverwrite(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return profileRow("attendee"), nil
		},
		updateOneFunc: func(table string, filter, patch store.Row) error {
			t.Fatal("UpdateOne must not run when a role is already set")
			return nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	err := c.SelectRole(context.Background(), constants.RoleOrganizer)
	var rerr *RoleUpdateError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RoleUpdateError, got %v", err)
	}
	if c.State().Role != constants.RoleAttendee {
		t.Errorf("existing role must be untouched, got %q", c.State().Role)
	}
}

func TestSelectRoleWithoutUserFailsWithoutNetwork(t *testing.T) {
	fake := &fakeClient{
		updateOneFunc: func(table string, filter, patch store.Row) error {
			t.Fatal("UpdateOne must not run with no active user")
			return nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	err := c.SelectRole(context.Background(), constants.RoleAttendee)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLogoutClearsStateThroughEvent(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return profileRow("attendee"), nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	view := c.State()
	if view.User != nil || view.Role != "" || view.IsLoading {
		t.Errorf("expected cleared settled view after logout, got %+v", view)
	}
}

func TestStaleWriteIsDiscarded(t *testing.T) {
	fake := &fakeClient{}
	c := NewController(fake)
	defer c.Close()

	// A later write settles first.
	lateSeq := c.seq.Add(1)
	earlySeq := lateSeq - 1
	c.apply(lateSeq, &User{ID: "acct-2", Email: "new@example.com"}, constants.RoleOrganizer)

	// The slow earlier write must not overwrite it.
	c.apply(earlySeq, &User{ID: "acct-1", Email: "old@example.com"}, constants.RoleAttendee)

	view := c.State()
	if view.User == nil || view.User.ID != "acct-2" {
		t.Fatalf("stale write overwrote a newer one: %+v", view.User)
	}
	if view.Role != constants.RoleOrganizer {
		t.Errorf("expected role organizer, got %q", view.Role)
	}
}

func TestStateReturnsSnapshot(t *testing.T) {
	fake := &fakeClient{
		authenticateFunc: func(ctx context.Context, email, password string) error { return nil },
		selectOneFunc: func(table string, filter store.Row) (store.Row, error) {
			return profileRow("attendee"), nil
		},
	}
	c := NewController(fake)
	defer c.Close()

	if err := c.SignIn(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	view := c.State()
	view.User.Name = "Mallory"

	if c.State().User.Name != "Ada" {
		t.Error("mutating a returned view must not affect the controller")
	}
}
