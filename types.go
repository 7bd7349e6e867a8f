package authcore

import (
	"context"
	"io"

	"github.com/blogstack/authcore/internal/audit"
)

const (
	// RoleUser is the default role assigned to self-registered accounts.
	RoleUser = "USER"
	// RoleAdmin marks administrative accounts.
	RoleAdmin = "ADMIN"
)

// UserRecord is the account shape the engine needs from a UserProvider.
// It carries no database identity; the username is the key everywhere.
type UserRecord struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Enabled      bool
}

// UserProvider is the host application's account backend. Implementations
// must be safe for concurrent use; the engine never caches records.
type UserProvider interface {
	FindByUsername(ctx context.Context, username string) (UserRecord, bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user UserRecord) error
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	SetEnabled(ctx context.Context, username string, enabled bool) error
	UpdateLastLogin(ctx context.Context, username string) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Principal identifies the authenticated caller on a request.
type Principal struct {
	Username string
	Role     string
}

// AuditEvent is the record delivered to audit sinks.
type AuditEvent = audit.Event

// AuditSink receives emitted audit events.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers audit events on a channel for in-process consumers.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a JSONWriterSink targeting w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
