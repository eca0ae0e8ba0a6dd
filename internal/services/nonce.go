package services

import (
	"errors"
	"sync"
	"time"

	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
)

const DefaultNonceTTL = 5 * time.Minute

var errNonceCollision = errors.New("nonce collision")

// NonceRegistry issues single-use nonces. Issue, Consume and Sweep share one
// mutex, so a nonce is either consumed or swept, never both.
type NonceRegistry struct {
	mu     sync.Mutex
	nonces map[string]models.Nonce
	ttl    time.Duration
	now    func() time.Time
}

type NonceOption func(*NonceRegistry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) NonceOption {
	return func(r *NonceRegistry) {
		r.now = now
	}
}

func NewNonceRegistry(ttl time.Duration, opts ...NonceOption) *NonceRegistry {
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}

	r := &NonceRegistry{
		nonces: make(map[string]models.Nonce),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *NonceRegistry) TTL() time.Duration {
	return r.ttl
}

func (r *NonceRegistry) Issue() (models.Nonce, error) {
	const op = "services.NonceRegistry.Issue"

	value, err := models.GenerateNonceValue()
	if err != nil {
		return models.Nonce{}, errs.Internal(op, err)
	}

	now := r.now()
	nonce := models.Nonce{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nonces[value]; exists {
		// 256 random bits colliding means the entropy source is broken.
		return models.Nonce{}, errs.Internal(op, errNonceCollision)
	}
	r.nonces[value] = nonce

	return nonce, nil
}

func (r *NonceRegistry) Validate(value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	nonce, ok := r.nonces[value]
	return ok && r.now().Before(nonce.ExpiresAt)
}

// Consume removes value and reports whether it was live. An expired entry is
// removed as well but reported as false.
func (r *NonceRegistry) Consume(value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	nonce, ok := r.nonces[value]
	if !ok {
		return false
	}

	delete(r.nonces, value)
	return r.now().Before(nonce.ExpiresAt)
}

// Sweep drops every entry with now >= ExpiresAt and returns how many went.
func (r *NonceRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for value, nonce := range r.nonces {
		if !now.Before(nonce.ExpiresAt) {
			delete(r.nonces, value)
			removed++
		}
	}
	return removed
}

func (r *NonceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.nonces)
}
