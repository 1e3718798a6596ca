package dgui

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"
)

// TokenStore is an in-memory TTL store for component payloads.
//
// Discord caps a component custom_id at 100 bytes, which is too small for
// a rendered notification's data. The store keeps the payload server-side
// and the custom_id carries only a short token. Expired tokens simply
// miss; the UI answers with a "this message has expired" reply.
type TokenStore struct {
	mu sync.RWMutex

	max int
	ttl time.Duration

	// cleanupInterval controls how often we run an O(n) sweep to drop
	// expired tokens, instead of scanning the whole map on every access.
	cleanupInterval time.Duration
	nextCleanup     time.Time

	m map[string]tokenEntry
}

type tokenEntry struct {
	b   []byte
	exp time.Time
}

// NewTokenStore creates a TokenStore.
// Defaults: ttl=24h, max=5000, cleanupInterval=1m.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		ttl:             24 * time.Hour,
		max:             5000,
		cleanupInterval: time.Minute,
		m:               map[string]tokenEntry{},
	}
}

// WithTTL sets the token TTL.
func (s *TokenStore) WithTTL(ttl time.Duration) *TokenStore {
	if s == nil || ttl <= 0 {
		return s
	}
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
	return s
}

// PutJSON stores JSON-marshaled v and returns a short token.
func (s *TokenStore) PutJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return s.putBytes(b), nil
}

// GetJSON unmarshals the payload for tok into out.
func (s *TokenStore) GetJSON(tok string, out any) bool {
	b, ok := s.getBytes(tok)
	if !ok {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (s *TokenStore) putBytes(b []byte) string {
	var buf [6]byte
	now := time.Now()
	s.maybeCleanup(now)

	for i := 0; i < 8; i++ {
		_, _ = rand.Read(buf[:])
		tok := base64.RawURLEncoding.EncodeToString(buf[:])

		s.mu.Lock()
		if _, exists := s.m[tok]; exists {
			s.mu.Unlock()
			continue
		}
		s.m[tok] = tokenEntry{b: append([]byte(nil), b...), exp: now.Add(s.ttl)}
		s.enforceMaxLocked()
		s.mu.Unlock()
		return tok
	}

	// Extremely unlikely collision fallback: include a time byte.
	_, _ = rand.Read(buf[:])
	tok := base64.RawURLEncoding.EncodeToString(append(buf[:], byte(now.UnixNano())))
	s.mu.Lock()
	s.m[tok] = tokenEntry{b: append([]byte(nil), b...), exp: now.Add(s.ttl)}
	s.enforceMaxLocked()
	s.mu.Unlock()
	return tok
}

func (s *TokenStore) getBytes(tok string) ([]byte, bool) {
	if s == nil || tok == "" {
		return nil, false
	}
	now := time.Now()
	s.maybeCleanup(now)

	s.mu.RLock()
	e, ok := s.m[tok]
	s.mu.RUnlock()
	if !ok || now.After(e.exp) {
		return nil, false
	}
	return append([]byte(nil), e.b...), true
}

func (s *TokenStore) maybeCleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.nextCleanup) {
		return
	}
	s.nextCleanup = now.Add(s.cleanupInterval)
	for k, e := range s.m {
		if now.After(e.exp) {
			delete(s.m, k)
		}
	}
}

// enforceMaxLocked drops the soonest-to-expire entries when over capacity.
func (s *TokenStore) enforceMaxLocked() {
	for len(s.m) > s.max {
		var oldest string
		var oldestExp time.Time
		for k, e := range s.m {
			if oldest == "" || e.exp.Before(oldestExp) {
				oldest = k
				oldestExp = e.exp
			}
		}
		delete(s.m, oldest)
	}
}
