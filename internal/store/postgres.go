package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"evently/server/internal/logging"
)

const sessionTTL = 7 * 24 * time.Hour

// Store is the Postgres + Redis backed account/row store. Accounts and
// credentials live in the accounts table, session tokens are JWTs
// registered in Redis so they can be revoked, and session-change events
// fan out per bound client.
type Store struct {
	db        *sqlx.DB
	redis     *redis.Client
	jwtSecret []byte

	mu      sync.Mutex
	clients map[string]*boundClient
}

func New(db *sqlx.DB, rdb *redis.Client, jwtSecret string) *Store {
	return &Store{
		db:        db,
		redis:     rdb,
		jwtSecret: []byte(jwtSecret),
		clients:   make(map[string]*boundClient),
	}
}

// Bind returns the Client facade for one browser session. Binding the
// same key twice returns the same facade.
func (s *Store) Bind(clientKey string) Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[clientKey]; ok {
		return c
	}
	c := &boundClient{store: s, key: clientKey, subs: make(map[int]*subscriber)}
	s.clients[clientKey] = c
	return c
}

// Release drops a bound client and cancels its subscriptions. Called
// when the owning controller is evicted.
func (s *Store) Release(clientKey string) {
	s.mu.Lock()
	c, ok := s.clients[clientKey]
	delete(s.clients, clientKey)
	s.mu.Unlock()

	if ok {
		c.closeAll()
	}
}

// ActiveToken reports the signed token of a client's active session, or
// "" when the client is signed out or unknown. The HTTP layer uses it to
// refresh the persisted session cookie.
func (s *Store) ActiveToken(clientKey string) string {
	s.mu.Lock()
	c, ok := s.clients[clientKey]
	s.mu.Unlock()
	if !ok {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.Token
}

type boundClient struct {
	store *Store
	key   string

	mu        sync.Mutex
	subs      map[int]*subscriber
	nextSubID int
	active    *Session
	activeSID string
}

type subscriber struct {
	ch   chan *Session
	once sync.Once
}

func (c *boundClient) OnSessionChange(fn func(*Session)) func() {
	sub := &subscriber{ch: make(chan *Session, 16)}

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = sub
	c.mu.Unlock()

	go func() {
		for sess := range sub.ch {
			fn(sess)
		}
	}()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		sub.once.Do(func() { close(sub.ch) })
	}
}

// emit records the active session and delivers it to every subscriber
// in emission order. Delivery is asynchronous; a subscriber that falls
// 16 events behind loses the oldest ones.
func (c *boundClient) emit(sess *Session, sid string) {
	c.mu.Lock()
	c.active = sess
	c.activeSID = sid
	targets := make([]*subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		targets = append(targets, sub)
	}
	c.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- sess:
		default:
			logging.Warn("session event dropped, subscriber backlog full", "client", c.key)
		}
	}
}

func (c *boundClient) closeAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[int]*subscriber)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

type accountRow struct {
	ID            string `db:"id"`
	Email         string `db:"email"`
	EmailVerified bool   `db:"email_verified"`
	PasswordHash  string `db:"password_hash"`
}

func (c *boundClient) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Code: CodeInternal, Message: "failed to hash password"}
	}

	var row accountRow
	query := `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, email_verified, password_hash
	`
	err = c.store.db.QueryRowxContext(ctx, query, uuid.New().String(), email, string(hash)).StructScan(&row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, &Error{Code: CodeConflict, Message: "account already exists for " + email}
		}
		return nil, &Error{Code: CodeInternal, Message: err.Error()}
	}

	acct := Account{ID: row.ID, Email: row.Email, EmailVerified: row.EmailVerified}
	if err := c.openSession(ctx, acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *boundClient) Authenticate(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var row accountRow
	err := c.store.db.QueryRowxContext(ctx,
		`SELECT id, email, email_verified, password_hash FROM accounts WHERE email = $1`, email,
	).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
		}
		return &Error{Code: CodeInternal, Message: err.Error()}
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	}

	return c.openSession(ctx, Account{ID: row.ID, Email: row.Email, EmailVerified: row.EmailVerified})
}

// openSession mints a JWT, registers it in Redis and emits the session.
func (c *boundClient) openSession(ctx context.Context, acct Account) error {
	sid := uuid.New().String()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": acct.ID,
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.store.jwtSecret)
	if err != nil {
		return &Error{Code: CodeInternal, Message: "failed to sign session token"}
	}

	if err := c.store.redis.Set(ctx, "session:"+sid, acct.ID, sessionTTL).Err(); err != nil {
		return &Error{Code: CodeInternal, Message: fmt.Sprintf("failed to register session: %v", err)}
	}

	c.emit(&Session{Token: token, Account: acct}, sid)
	return nil
}

func (c *boundClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sid := c.activeSID
	c.mu.Unlock()

	if sid != "" {
		if err := c.store.redis.Del(ctx, "session:"+sid).Err(); err != nil {
			logging.Warn("failed to revoke session", "sid", sid, "error", err.Error())
		}
	}

	// Emit the empty session even when nothing was active so that a
	// controller waiting on sign-out always settles.
	c.emit(nil, "")
	return nil
}

func (c *boundClient) Refresh(ctx context.Context) error {
	c.mu.Lock()
	sess := c.active
	sid := c.activeSID
	c.mu.Unlock()

	c.emit(sess, sid)
	return nil
}

func (c *boundClient) Restore(ctx context.Context, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.store.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		c.emit(nil, "")
		return &Error{Code: CodeInvalidSession, Message: "session token rejected"}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		c.emit(nil, "")
		return &Error{Code: CodeInvalidSession, Message: "session token malformed"}
	}
	sid, _ := claims["sid"].(string)
	accountID, _ := claims["sub"].(string)

	stored, err := c.store.redis.Get(ctx, "session:"+sid).Result()
	if err != nil || stored != accountID {
		c.emit(nil, "")
		return &Error{Code: CodeInvalidSession, Message: "session revoked or expired"}
	}

	var row accountRow
	err = c.store.db.QueryRowxContext(ctx,
		`SELECT id, email, email_verified, password_hash FROM accounts WHERE id = $1`, accountID,
	).StructScan(&row)
	if err != nil {
		c.emit(nil, "")
		return &Error{Code: CodeInvalidSession, Message: "account no longer exists"}
	}

	acct := Account{ID: row.ID, Email: row.Email, EmailVerified: row.EmailVerified}
	c.emit(&Session{Token: token, Account: acct}, sid)
	return nil
}

func (c *boundClient) SelectOne(ctx context.Context, table string, filter Row) (Row, error) {
	if err := checkColumns(table, filter); err != nil {
		return nil, err
	}

	query, args := buildSelectOne(table, filter)
	row := make(Row)
	err := c.store.db.QueryRowxContext(ctx, query, args...).MapScan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &Error{Code: CodeNoRows, Message: "no rows matched"}
		}
		return nil, &Error{Code: CodeInternal, Message: err.Error()}
	}
	return normalizeRow(row), nil
}

func (c *boundClient) InsertOne(ctx context.Context, table string, record Row) (Row, error) {
	if err := checkColumns(table, record); err != nil {
		return nil, err
	}

	query, args := buildInsert(table, record)
	row := make(Row)
	err := c.store.db.QueryRowxContext(ctx, query, args...).MapScan(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, &Error{Code: CodeConflict, Message: "row already exists"}
		}
		return nil, &Error{Code: CodeInternal, Message: err.Error()}
	}
	return normalizeRow(row), nil
}

func (c *boundClient) UpdateOne(ctx context.Context, table string, filter, patch Row) error {
	if err := checkColumns(table, filter, patch); err != nil {
		return err
	}

	query, args := buildUpdate(table, filter, patch)
	res, err := c.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &Error{Code: CodeInternal, Message: err.Error()}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Code: CodeNoRows, Message: "no rows matched"}
	}
	return nil
}
