package utils // package utils provides helper functions for tokens, hashing and identifiers

import (
	"crypto/rand"   // secure random bytes for session tokens
	"crypto/sha256" // SHA-256 hashing for stored session tokens
	"encoding/hex"  // hex encoding of tokens and digests
	"fmt"
	"time"
)

// SessionToken is an opaque, long random value handed to the browser inside the
// session cookie.  Only its SHA-256 hash is kept server-side, so a leaked
// session store cannot be replayed against the application.
type SessionToken struct {
	Raw string    // raw token returned to the client
	Exp time.Time // UTC expiration time
}

// NewSessionToken returns a cryptographically random session token that
// expires ttl from now.
func NewSessionToken(ttl time.Duration) (SessionToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(ttl),
	}, nil
}

// HashSessionRaw returns the SHA-256 hash of a raw session token as a hex
// string.  The session store is keyed by this value, never by the raw token.
func HashSessionRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewMemberID derives the human-shareable member identifier from the row id a
// user was assigned at registration: "U" + the last six digits of the unix
// timestamp + the id zero-padded to three digits.  Unlike the id itself the
// member id is safe to print on screen and pass around in chat.
func NewMemberID(id uint64, now time.Time) string {
	ts := now.Unix() % 1_000_000
	return fmt.Sprintf("U%06d%03d", ts, id%1000)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RandomSuffix exposes a short random hex string for filenames and similar
// non-secret uses.  It panics only if the system RNG is broken, in which case
// nothing else in the process is trustworthy either.
func RandomSuffix() string {
	s, err := randomHex(4)
	if err != nil {
		panic(err)
	}
	return s
}
