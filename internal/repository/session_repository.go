package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session tracks.  Members and admins authenticate independently and a token
// from one track is never valid on the other, so the tracks get disjoint key
// namespaces.
const (
	TrackUser  = "user"
	TrackAdmin = "admin"
)

// SessionRepo stores live sessions in Redis.  Keys are
// "sess:<track>:<sha256(token)>" and hold the principal id; the TTL slides
// on every touch, which reproduces the original's rolling cookie behavior.
// Only the hash of the browser token is ever stored, following the same
// discipline as hashed refresh tokens: a dumped session store is useless
// without the raw cookies.
//
// When the Redis client is nil the repo is disabled and every method reports
// ErrNotFound; the middleware then treats all sessions as expired except in
// degraded mode, where the signed cookie's own expiry is the only control.
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepo(rdb *redis.Client, ttl time.Duration) *SessionRepo {
	return &SessionRepo{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis backend is available.
func (r *SessionRepo) Enabled() bool { return r != nil && r.rdb != nil }

// Store records a new live session for the principal.
func (r *SessionRepo) Store(ctx context.Context, track, tokenHash string, principalID uint64) error {
	if !r.Enabled() {
		return nil
	}
	return r.rdb.Set(ctx, sessionKey(track, tokenHash),
		strconv.FormatUint(principalID, 10), r.ttl).Err()
}

// Touch returns the principal id for a live session and slides its TTL.
// A missing or expired session returns ErrNotFound.
func (r *SessionRepo) Touch(ctx context.Context, track, tokenHash string) (uint64, error) {
	if !r.Enabled() {
		return 0, ErrNotFound
	}
	v, err := r.rdb.GetEx(ctx, sessionKey(track, tokenHash), r.ttl).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

// Delete tears a session down (logout).
func (r *SessionRepo) Delete(ctx context.Context, track, tokenHash string) error {
	if !r.Enabled() {
		return nil
	}
	return r.rdb.Del(ctx, sessionKey(track, tokenHash)).Err()
}

func sessionKey(track, tokenHash string) string {
	return "sess:" + track + ":" + tokenHash
}
