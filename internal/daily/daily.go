// Package daily derives the shared "daily herd" and keeps its results.
//
// Every player who starts a daily game on the same UTC date gets the same
// seed, so cow placement, dealt hands and herd behaviour replay identically
// for identical card choices.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared so the seed is never negative
	return int64(binary.BigEndian.Uint64(sum[:8]) & (1<<63 - 1))
}

// Rand returns the random source for a date's herd.
func Rand(date time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewSource(Seed(date, salt)))
}
