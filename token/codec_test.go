package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		AccessTTL:  2 * time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newTestCodec(t *testing.T, cfg Config) *Codec {
	t.Helper()
	c, err := NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty secret", Config{AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"zero access TTL", Config{Secret: []byte("s"), RefreshTTL: time.Hour}},
		{"zero refresh TTL", Config{Secret: []byte("s"), AccessTTL: time.Hour}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCodec(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestIssueAndVerifyBothKinds(t *testing.T) {
	c := newTestCodec(t, testConfig())

	access, accessExp, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, refreshExp, err := c.IssueRefresh("alice", "USER")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if !refreshExp.After(accessExp) {
		t.Fatalf("refresh expiry %v not after access expiry %v", refreshExp, accessExp)
	}

	claims, err := c.Verify(access)
	if err != nil {
		t.Fatalf("Verify access: %v", err)
	}
	if claims.Subject() != "alice" || claims.Role != "USER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.IsRefresh() {
		t.Fatal("access token decoded as refresh kind")
	}

	claims, err = c.Verify(refresh)
	if err != nil {
		t.Fatalf("Verify refresh: %v", err)
	}
	if !claims.IsRefresh() {
		t.Fatal("refresh token decoded as access kind")
	}
}

func TestSameSecondIssuancesAreDistinct(t *testing.T) {
	c := newTestCodec(t, testConfig())

	first, _, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	second, _, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if first == second {
		t.Fatal("two issuances produced identical tokens")
	}
}

func TestVerifyExpiredReturnsClaims(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = time.Nanosecond
	c := newTestCodec(t, cfg)

	tok, _, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := c.Verify(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if claims == nil || claims.Subject() != "alice" {
		t.Fatalf("expired verify should still decode claims, got %+v", claims)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	c := newTestCodec(t, testConfig())

	tok, _, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := c.Verify(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyTamperedExpiredTokenFailsOnSignature(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = time.Nanosecond
	c := newTestCodec(t, cfg)

	tok, _, err := c.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	// Integrity is checked before expiry.
	if _, err := c.Verify(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := newTestCodec(t, testConfig())

	other := testConfig()
	other.Secret = []byte("ffffffffffffffffffffffffffffffff")
	verifier := newTestCodec(t, other)

	tok, _, err := issuer.IssueAccess("alice", "USER")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := newTestCodec(t, testConfig())

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := c.Verify(tok); !errors.Is(err, ErrMalformed) {
			t.Fatalf("token %q: expected ErrMalformed, got %v", tok, err)
		}
	}
}
