package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/blogstack/authcore/password"
)

// memoryProvider is an in-memory UserProvider for engine tests.
type memoryProvider struct {
	mu         sync.Mutex
	users      map[string]UserRecord
	lastLogins map[string]int
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{
		users:      map[string]UserRecord{},
		lastLogins: map[string]int{},
	}
}

func (p *memoryProvider) addUser(t *testing.T, username, email, plainPassword, role string, enabled bool) {
	t.Helper()

	hash, err := password.NewHasher(4).Hash(plainPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[username] = UserRecord{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Enabled:      enabled,
	}
}

func (p *memoryProvider) FindByUsername(_ context.Context, username string) (UserRecord, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.users[username]
	return rec, ok, nil
}

func (p *memoryProvider) ExistsByUsername(_ context.Context, username string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.users[username]
	return ok, nil
}

func (p *memoryProvider) ExistsByEmail(_ context.Context, email string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range p.users {
		if rec.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (p *memoryProvider) Create(_ context.Context, user UserRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[user.Username] = user
	return nil
}

func (p *memoryProvider) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.users[username]
	if !ok {
		return ErrUserNotFound
	}
	rec.PasswordHash = passwordHash
	p.users[username] = rec
	return nil
}

func (p *memoryProvider) SetEnabled(_ context.Context, username string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.users[username]
	if !ok {
		return ErrUserNotFound
	}
	rec.Enabled = enabled
	p.users[username] = rec
	return nil
}

func (p *memoryProvider) UpdateLastLogin(_ context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastLogins[username]++
	return nil
}

func (p *memoryProvider) lastLoginCount(username string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastLogins[username]
}

func testEngineConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = 4
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *memoryProvider, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testEngineConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	provider := newMemoryProvider()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(provider).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, provider, mr
}

func mustLogin(t *testing.T, engine *Engine, username, pw string) *TokenPair {
	t.Helper()
	pair, err := engine.Login(context.Background(), username, pw)
	if err != nil {
		t.Fatalf("Login(%s): %v", username, err)
	}
	return pair
}

func shortTTLs(access, refresh time.Duration) func(*Config) {
	return func(cfg *Config) {
		cfg.JWT.AccessTTL = access
		cfg.JWT.RefreshTTL = refresh
	}
}
