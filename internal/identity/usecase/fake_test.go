package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/medibook/internal/identity/entity"
	"github.com/shandysiswandi/medibook/internal/pkg/clock"
	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/idempotency"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/jwt"
	"github.com/shandysiswandi/medibook/internal/pkg/ratelimit"
	"github.com/shandysiswandi/medibook/internal/pkg/validator"
)

var (
	fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	errDB    = errors.New("db down")
)

type fakeDB struct {
	mu sync.Mutex

	users   map[string]*entity.UserLoginInfo
	creds   map[int64]*entity.UserCredentialInfo
	profile map[int64]*entity.User
	tokens  map[string]*entity.UserRefreshToken

	created     []entity.RefreshToken
	registered  []entity.NewUser
	revoked     []string
	revokedAll  []int64
	rotated     []entity.RotateRefreshToken
	updated     map[int64]string
	replaced    map[int64]string
	loginErr    error
	registerErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    map[string]*entity.UserLoginInfo{},
		creds:    map[int64]*entity.UserCredentialInfo{},
		profile:  map[int64]*entity.User{},
		tokens:   map[string]*entity.UserRefreshToken{},
		updated:  map[int64]string{},
		replaced: map[int64]string{},
	}
}

func (f *fakeDB) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) GetUserCredentialInfo(_ context.Context, id int64) (*entity.UserCredentialInfo, error) {
	c, ok := f.creds[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return c, nil
}

func (f *fakeDB) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return rt, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := f.profile[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.created = append(f.created, in)
	return nil
}

func (f *fakeDB) NewRegistration(_ context.Context, user entity.NewUser, hashed string) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, user)
	f.users[user.Email] = &entity.UserLoginInfo{ID: user.ID, Email: user.Email, Role: user.Role, Status: user.Status, Password: hashed}
	return nil
}

func (f *fakeDB) RevokeRefreshToken(_ context.Context, _ int64, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeDB) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func (f *fakeDB) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.rotated = append(f.rotated, ro)
	return nil
}

func (f *fakeDB) UpdateUserCredential(_ context.Context, userID int64, hashed string) error {
	f.updated[userID] = hashed
	return nil
}

func (f *fakeDB) ReplaceUserCredential(_ context.Context, userID int64, _, newHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced[userID] = newHash
	return true, nil
}

type fakeMQ struct {
	registered []UserRegisteredEvent
	changed    []UserPasswordChangedEvent
	err        error
}

func (f *fakeMQ) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.registered = append(f.registered, msg)
	return f.err
}

func (f *fakeMQ) PublishUserPasswordChanged(_ context.Context, msg UserPasswordChangedEvent) error {
	f.changed = append(f.changed, msg)
	return f.err
}

type fakeJWT struct{}

func (fakeJWT) Generate(sub jwt.Subject) (string, error) {
	return "access-" + strconv.FormatInt(sub.UserID, 10) + "-" + sub.Role, nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{}, jwt.ErrInvalidToken
}

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return 1000 + s.n
}

type seqToken struct{ n int }

func (s *seqToken) Generate() string {
	s.n++
	return "refresh-token-" + strconv.Itoa(s.n)
}

type fakeEnforcer struct {
	allow map[string]bool
	err   error
}

func (f fakeEnforcer) Enforce(rvals ...any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allow[rvals[0].(string)], nil
}

// syncGoroutine runs tasks inline so tests can assert on their effects.
type syncGoroutine struct{ errs []error }

func (g *syncGoroutine) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if err := f(ctx); err != nil {
		g.errs = append(g.errs, err)
	}
	return true
}

type memLimiter struct {
	limit int
	hits  map[string]int
}

func (m *memLimiter) Allow(_ context.Context, key string) (ratelimit.Result, error) {
	return ratelimit.Result{Allowed: m.hits[key] < m.limit, Remaining: m.limit - m.hits[key]}, nil
}

func (m *memLimiter) Hit(_ context.Context, key string) (ratelimit.Result, error) {
	m.hits[key]++
	return m.Allow(context.Background(), key)
}

func (m *memLimiter) Reset(_ context.Context, key string) error {
	delete(m.hits, key)
	return nil
}

type memGuard struct{ done map[string]bool }

func (g *memGuard) Run(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.RunOption) error {
	if g.done[key] {
		return idempotency.ErrCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	g.done[key] = true
	return nil
}

type harness struct {
	uc       *Usecase
	db       *fakeDB
	mq       *fakeMQ
	limiter  *memLimiter
	routines *syncGoroutine
	guard    *memGuard
	hmac     hash.Hash
	password hash.PasswordHasher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    refresh_token_ttl_days: 30\n    rehash_guard_minutes: 10\n    rehash_lock_seconds: 30\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	password, err := hash.NewPassword(hash.Config{Algorithm: "bcrypt", BcryptCost: 5})
	if err != nil {
		t.Fatalf("password hasher: %v", err)
	}

	hmac, err := hash.NewHMACSHA256("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}

	h := &harness{
		db:       newFakeDB(),
		mq:       &fakeMQ{},
		limiter:  &memLimiter{limit: 3, hits: map[string]int{}},
		routines: &syncGoroutine{},
		guard:    &memGuard{done: map[string]bool{}},
		hmac:     hmac,
		password: password,
	}

	h.uc = New(Dependency{
		RepoDB:        h.db,
		RepoMessaging: h.mq,
		Validator:     v,
		Config:        cfg,
		Password:      password,
		HMAC:          hmac,
		UID:           &seqID{},
		Token:         &seqToken{},
		Clock:         clock.NewFrozen(fixedNow),
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
		Enforcer:      fakeEnforcer{allow: map[string]bool{"admin": true}},
		Goroutine:     h.routines,
		Limiter:       h.limiter,
		Idempotency:   h.guard,
	})

	return h
}

// seedUser stores an active account whose credential is hashed with hasher.
func (h *harness) seedUser(t *testing.T, id int64, email, plaintext string, role entity.Role, hasher hash.Hash) string {
	t.Helper()

	hashed, err := hasher.Hash(plaintext)
	if err != nil {
		t.Fatalf("seed hash: %v", err)
	}

	h.db.users[email] = &entity.UserLoginInfo{ID: id, Email: email, Role: role, Status: entity.UserStatusActive, Password: string(hashed)}
	h.db.creds[id] = &entity.UserCredentialInfo{ID: id, Email: email, Status: entity.UserStatusActive, Password: string(hashed), UpdatedAt: fixedNow}
	h.db.profile[id] = &entity.User{ID: id, Email: email, FullName: "Dina Pratiwi", Role: role, Status: entity.UserStatusActive}

	return string(hashed)
}

func authCtx(userID int64, role entity.Role) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, Role: role.String()})
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := goerror.CodeOf(err); got != want {
		t.Fatalf("code = %s, want %s (err: %v)", got, want, err)
	}
}
