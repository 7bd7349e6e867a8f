package authcore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/blogstack/authcore/token"
)

func TestAuthenticateRejectsBlankToken(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	for _, tok := range []string{"", "  "} {
		if _, err := engine.Authenticate(context.Background(), tok); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", tok, err)
		}
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	engine, provider, _ := newTestEngine(t, nil)
	provider.addUser(t, "alice", "alice@example.com", "pw-alice", RoleUser, true)

	pair := mustLogin(t, engine, "alice", "pw-alice")

	if _, err := engine.Authenticate(context.Background(), pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	engine, provider, _ := newTestEngine(t, nil)
	provider.addUser(t, "alice", "alice@example.com", "pw-alice", RoleUser, true)

	pair := mustLogin(t, engine, "alice", "pw-alice")

	parts := strings.Split(pair.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))

	if _, err := engine.Authenticate(context.Background(), tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	expiredCodec, err := token.NewCodec(token.Config{
		Secret:     testEngineConfig().JWT.Secret,
		AccessTTL:  time.Nanosecond,
		RefreshTTL: time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	expired, _, err := expiredCodec.IssueAccess("alice", RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	if _, err := engine.Authenticate(context.Background(), expired); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticateIsStatelessUnderRedisOutage(t *testing.T) {
	engine, provider, mr := newTestEngine(t, nil)
	provider.addUser(t, "alice", "alice@example.com", "pw-alice", RoleUser, true)

	pair := mustLogin(t, engine, "alice", "pw-alice")

	mr.Close()

	principal, err := engine.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate with redis down: %v", err)
	}
	if principal.Username != "alice" {
		t.Fatalf("principal = %+v", principal)
	}
}

func TestAuditEventsFlowToSink(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sink := NewChannelSink(16)
	provider := newMemoryProvider()
	provider.addUser(t, "alice", "alice@example.com", "pw-alice", RoleUser, true)

	engine, err := New().
		WithConfig(testEngineConfig()).
		WithRedis(rdb).
		WithUserProvider(provider).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}

	if _, err := engine.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	engine.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventLoginFailure {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.Success {
			t.Fatal("failure event marked successful")
		}
		if event.Username != "alice" {
			t.Fatalf("event username = %q", event.Username)
		}
	case <-time.After(time.Second):
		t.Fatal("no audit event delivered")
	}
}

func TestBuilderValidation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	if _, err := New().WithUserProvider(newMemoryProvider()).Build(); err == nil {
		t.Fatal("build without redis succeeded")
	}
	if _, err := New().WithRedis(rdb).Build(); err == nil {
		t.Fatal("build without user provider succeeded")
	}
	if _, err := New().WithRedis(rdb).WithUserProvider(newMemoryProvider()).Build(); err == nil {
		t.Fatal("build without secret succeeded")
	}
	if _, err := New().
		WithRedis(rdb).
		WithUserProvider(newMemoryProvider()).
		WithSecret([]byte("too short")).
		Build(); err == nil {
		t.Fatal("build with short secret succeeded")
	}

	b := New().WithConfig(testEngineConfig()).WithRedis(rdb).WithUserProvider(newMemoryProvider())
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("builder reuse succeeded")
	}
}

func TestEngineNotReady(t *testing.T) {
	var engine *Engine

	if _, err := engine.Login(context.Background(), "a", "b"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Login on nil engine: %v", err)
	}
	if _, err := engine.Refresh(context.Background(), "t"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Refresh on nil engine: %v", err)
	}
	if _, err := engine.Authenticate(context.Background(), "t"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("Authenticate on nil engine: %v", err)
	}
	if err := engine.RevokeAll(context.Background(), "a"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("RevokeAll on nil engine: %v", err)
	}
}
