package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blogstack/authcore/token"
)

// ErrStoreUnavailable is returned when the backing Redis instance cannot be
// reached or answers with an unexpected failure. Login and refresh treat it
// as fatal; the stateless request path never consults the store at all.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Entry describes one live token for index bookkeeping: the raw signed
// string plus its absolute expiry, which doubles as the sorted-set score.
type Entry struct {
	Kind      token.Kind
	Token     string
	ExpiresAt time.Time
}

// Store is a narrow capability surface over a shared Redis instance. It holds
// per-user per-kind sorted-set token indices scored by expiry, per-token
// reverse lookups with TTL, and the single current-refresh-token slot per
// user. Every instance of the service talks to the same store, which is what
// makes revoke-all correct across processes without extra coordination.
//
// Multi-key writes go through MULTI/EXEC pipelines so each operation is a
// single round trip; no in-process locks are held.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a Store backed by the given Redis client. prefix sets the
// key namespace and defaults to "ba".
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ba"
	}
	return &Store{redis: redisClient, prefix: prefix}
}

func (s *Store) indexKey(kind token.Kind, username string) string {
	return s.prefix + ":idx:" + string(kind) + ":" + username
}

func (s *Store) lookupKey(kind token.Kind, tok string) string {
	return s.prefix + ":tok:" + string(kind) + ":" + tok
}

func (s *Store) slotKey(username string) string {
	return s.prefix + ":cur:" + username
}

func (s *Store) usersKey() string {
	return s.prefix + ":users"
}

func (s *Store) registerLockKey(username string) string {
	return s.prefix + ":reglock:" + username
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// RecordPair registers a freshly minted access+refresh pair for username:
// the current-refresh slot is overwritten (last login wins), both tokens are
// added to their per-kind indices, reverse lookups are written with TTLs
// equal to each token's remaining life, and the user joins the sweep set.
func (s *Store) RecordPair(ctx context.Context, username string, access, refresh Entry, refreshTTL time.Duration) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.slotKey(username), refresh.Token, refreshTTL)
		s.pipeRecord(ctx, pipe, username, access)
		s.pipeRecord(ctx, pipe, username, refresh)
		pipe.SAdd(ctx, s.usersKey(), username)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SwapRefresh atomically installs a rotated pair: the slot is overwritten
// with the new refresh token, the old refresh token leaves its index and
// loses its reverse lookup, and the new pair is registered. The caller's
// still-live access token is deliberately untouched; it stays valid until
// natural expiry.
func (s *Store) SwapRefresh(ctx context.Context, username, oldRefresh string, access, refresh Entry, refreshTTL time.Duration) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.slotKey(username), refresh.Token, refreshTTL)
		pipe.ZRem(ctx, s.indexKey(token.KindRefresh, username), oldRefresh)
		pipe.Del(ctx, s.lookupKey(token.KindRefresh, oldRefresh))
		s.pipeRecord(ctx, pipe, username, access)
		s.pipeRecord(ctx, pipe, username, refresh)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) pipeRecord(ctx context.Context, pipe redis.Pipeliner, username string, e Entry) {
	pipe.ZAdd(ctx, s.indexKey(e.Kind, username), redis.Z{Score: score(e.ExpiresAt), Member: e.Token})
	pipe.Set(ctx, s.lookupKey(e.Kind, e.Token), username, time.Until(e.ExpiresAt))
}

// CurrentRefresh returns the refresh token currently occupying the user's
// slot. ok is false when the slot is empty or expired, which means the user
// holds no live refresh lineage.
func (s *Store) CurrentRefresh(ctx context.Context, username string) (string, bool, error) {
	val, err := s.redis.Get(ctx, s.slotKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return val, true, nil
}

// Owner answers "does this still-live token belong to an active session"
// via the reverse lookup, without decoding the token.
func (s *Store) Owner(ctx context.Context, kind token.Kind, tok string) (string, bool, error) {
	val, err := s.redis.Get(ctx, s.lookupKey(kind, tok)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return val, true, nil
}

// LiveTokens returns every indexed token of one kind for a user, including
// entries past their score that the sweep has not purged yet.
func (s *Store) LiveTokens(ctx context.Context, username string, kind token.Kind) ([]string, error) {
	members, err := s.redis.ZRange(ctx, s.indexKey(kind, username), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return members, nil
}

// RevokeAllForUser deletes every reverse lookup referenced by either index,
// both index sets, the current-refresh slot, and the user's sweep-set
// membership. It returns how many indexed tokens were dropped; calling it for
// a user with no session is a no-op.
func (s *Store) RevokeAllForUser(ctx context.Context, username string) (int, error) {
	accessTokens, err := s.LiveTokens(ctx, username, token.KindAccess)
	if err != nil {
		return 0, err
	}
	refreshTokens, err := s.LiveTokens(ctx, username, token.KindRefresh)
	if err != nil {
		return 0, err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tok := range accessTokens {
			pipe.Del(ctx, s.lookupKey(token.KindAccess, tok))
		}
		for _, tok := range refreshTokens {
			pipe.Del(ctx, s.lookupKey(token.KindRefresh, tok))
		}
		pipe.Del(ctx, s.indexKey(token.KindAccess, username))
		pipe.Del(ctx, s.indexKey(token.KindRefresh, username))
		pipe.Del(ctx, s.slotKey(username))
		pipe.SRem(ctx, s.usersKey(), username)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return len(accessTokens) + len(refreshTokens), nil
}

// PurgeExpired removes index members with score at or below cutoff from both
// of the user's indices and returns how many entries were dropped. Reverse
// lookups and the slot expire on their own TTLs and are not touched here.
func (s *Store) PurgeExpired(ctx context.Context, username string, cutoff time.Time) (int64, error) {
	max := strconv.FormatInt(cutoff.UnixMilli(), 10)

	var removed int64
	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		n, err := s.redis.ZRemRangeByScore(ctx, s.indexKey(kind, username), "-inf", max).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		removed += n
	}
	return removed, nil
}

// KnownUsers lists every user that currently participates in the sweep set.
func (s *Store) KnownUsers(ctx context.Context) ([]string, error) {
	users, err := s.redis.SMembers(ctx, s.usersKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return users, nil
}

// AcquireRegistrationLock attempts the registration debounce lock for
// username. The SET NX PX form is a single atomic round trip; a
// test-then-set pair would race and allow duplicate registrations.
func (s *Store) AcquireRegistrationLock(ctx context.Context, username string, ttl time.Duration) (bool, error) {
	ok, err := s.redis.SetNX(ctx, s.registerLockKey(username), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ok, nil
}

// Ping returns a point-in-time store availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}
