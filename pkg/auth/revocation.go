package auth

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// RevocationList remembers revoked token ids until the tokens would have
// expired anyway.
type RevocationList struct {
	entries *cache.Cache
}

func NewRevocationList(cleanupInterval time.Duration) *RevocationList {
	return &RevocationList{
		entries: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (l *RevocationList) Revoke(tokenID string, until time.Time) {
	ttl := time.Until(until)
	if tokenID == "" || ttl <= 0 {
		return
	}
	l.entries.Set(tokenID, struct{}{}, ttl)
}

func (l *RevocationList) IsRevoked(tokenID string) bool {
	_, found := l.entries.Get(tokenID)
	return found
}
