package llm

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// KeyStatus records the operational state of one credential. It carries no
// business data.
type KeyStatus struct {
	Label       string    `json:"label"`
	Exhausted   bool      `json:"exhausted"`
	RateLimited bool      `json:"rateLimited"`
	LastError   string    `json:"lastError,omitempty"`
	LastFailure time.Time `json:"lastFailure,omitempty"`
}

// KeyTable tracks per-credential exhaustion and rate-limit state. It is
// advisory: concurrent marks may race and last-writer-wins is fine, since
// the table only affects routing of future requests.
type KeyTable struct {
	mu     sync.Mutex
	keys   []string
	status map[string]*KeyStatus
}

// NewKeyTable builds a table over the given ordered credential list. Empty
// entries are dropped.
func NewKeyTable(keys []string) *KeyTable {
	t := &KeyTable{status: make(map[string]*KeyStatus)}
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		t.keys = append(t.keys, k)
		t.status[k] = &KeyStatus{Label: labelFor(i)}
	}
	return t
}

// Keys returns the credentials in configured order.
func (t *KeyTable) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.keys...)
}

// Usable reports whether the key is neither exhausted nor rate-limited.
func (t *KeyTable) Usable(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.status[key]
	if !ok {
		return false
	}
	return !s.Exhausted && !s.RateLimited
}

// MarkExhausted flags a key as out of quota.
func (t *KeyTable) MarkExhausted(key, reason string) {
	t.mark(key, reason, func(s *KeyStatus) { s.Exhausted = true })
}

// MarkRateLimited flags a key as rate-limited.
func (t *KeyTable) MarkRateLimited(key, reason string) {
	t.mark(key, reason, func(s *KeyStatus) { s.RateLimited = true })
}

func (t *KeyTable) mark(key, reason string, apply func(*KeyStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.status[key]
	if !ok {
		return
	}
	apply(s)
	s.LastError = reason
	s.LastFailure = time.Now().UTC()
}

// AllExhausted reports whether no usable key remains.
func (t *KeyTable) AllExhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range t.keys {
		s := t.status[k]
		if !s.Exhausted && !s.RateLimited {
			return false
		}
	}
	return true
}

// Reset clears all failure state, making every key usable again.
func (t *KeyTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, k := range t.keys {
		t.status[k] = &KeyStatus{Label: labelFor(i)}
	}
}

// Snapshot returns the current status of every key, in order, without
// exposing the key material itself.
func (t *KeyTable) Snapshot() []KeyStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]KeyStatus, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, *t.status[k])
	}
	return out
}

func labelFor(i int) string {
	return "key" + strconv.Itoa(i+1)
}
