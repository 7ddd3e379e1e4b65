package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"leadflow/internal/models"

	"github.com/patrickmn/go-cache"
)

// Placeholder values that represent "no real data". They never
// overwrite a previously known field and are never stored.
var placeholderValues = map[string]struct{}{
	"Not provided":          {},
	"No additional details": {},
}

// GuardEntry records the last notification attempt for a lead identity.
type GuardEntry struct {
	Email  string    `json:"email"`
	SentAt time.Time `json:"sent_at"`
}

// SendGuard stores the last-send record per identity key. The default
// implementation is in-process; a Redis-backed one is used when
// multiple instances must share the dedup window.
type SendGuard interface {
	Lookup(key string) (GuardEntry, bool)
	Store(key string, entry GuardEntry)
}

// memoryGuard keeps guard entries in a TTL cache. Entries outlive the
// dedup window by one extra window so the email-changed check still
// sees recent sends, then get evicted by the cache janitor.
type memoryGuard struct {
	entries *cache.Cache
}

func newMemoryGuard(window time.Duration) *memoryGuard {
	return &memoryGuard{entries: cache.New(2*window, window)}
}

func (g *memoryGuard) Lookup(key string) (GuardEntry, bool) {
	value, found := g.entries.Get(key)
	if !found {
		return GuardEntry{}, false
	}
	entry, ok := value.(GuardEntry)
	return entry, ok
}

func (g *memoryGuard) Store(key string, entry GuardEntry) {
	g.entries.Set(key, entry, cache.DefaultExpiration)
}

// DeduperService merges progressively revealed lead fields per identity
// and suppresses duplicate notifications inside the dedup window.
// Both caches are process-wide and keyed by lead identity, not by
// conversation.
type DeduperService struct {
	info   *cache.Cache // identity key -> map[string]string of merged fields
	guard  SendGuard
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewDeduperService creates a deduper with the in-process send guard.
// window is the minimum interval between two notifications for the
// same identity and same resolved email.
func NewDeduperService(window time.Duration) *DeduperService {
	return NewDeduperServiceWithGuard(window, newMemoryGuard(window))
}

// NewDeduperServiceWithGuard creates a deduper with a custom send
// guard (e.g. Redis-backed for multi-instance deployments).
func NewDeduperServiceWithGuard(window time.Duration, guard SendGuard) *DeduperService {
	return &DeduperService{
		// Merged fields are kept for a day so a lead revisiting later
		// the same day still accumulates; the janitor bounds growth.
		info:     cache.New(24*time.Hour, time.Hour),
		guard:    guard,
		window:   window,
		now:      time.Now,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

// IdentityKey builds the cache key for a lead identity.
func IdentityKey(leadType models.LeadType, name string) string {
	return strings.ToLower(string(leadType)) + ":" + strings.ToLower(name)
}

// keyLock returns the mutex serializing all deduper work for one
// identity. Two conversations about the same lead must not interleave
// their read-merge-decide-write sequence.
func (s *DeduperService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	return lock
}

// ConsiderNotify merges newFields into the cached record for this
// identity and decides whether a notification should go out now.
// A missing email is not a failure: it means "wait for more
// information".
func (s *DeduperService) ConsiderNotify(leadType models.LeadType, name string, newFields map[string]string) models.NotifyDecision {
	key := IdentityKey(leadType, name)

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	merged := s.mergeFields(key, newFields)

	email := merged["email"]
	if email == "" {
		log.Printf("📧 [DEDUPE] No email for %s lead %s yet; waiting", leadType, name)
		return models.NotifyDecision{Send: false, Merged: merged, Reason: "no email yet"}
	}

	now := s.now()
	if last, found := s.guard.Lookup(key); found {
		elapsed := now.Sub(last.SentAt)
		if last.Email == email && elapsed <= s.window {
			log.Printf("📧 [DEDUPE] Skipping duplicate for %s (sent %ds ago)", name, int(elapsed.Seconds()))
			return models.NotifyDecision{
				Send:   false,
				Merged: merged,
				Reason: fmt.Sprintf("duplicate within window (sent %ds ago)", int(elapsed.Seconds())),
			}
		}
	}

	s.guard.Store(key, GuardEntry{Email: email, SentAt: now})
	return models.NotifyDecision{Send: true, Merged: merged, Reason: "ok"}
}

// mergeFields overwrites cached values with non-empty, non-placeholder
// incoming values. Caller must hold the key lock.
func (s *DeduperService) mergeFields(key string, newFields map[string]string) map[string]string {
	merged := make(map[string]string)
	if value, found := s.info.Get(key); found {
		if cached, ok := value.(map[string]string); ok {
			for k, v := range cached {
				merged[k] = v
			}
		}
	}

	for k, v := range newFields {
		if v == "" {
			continue
		}
		if _, placeholder := placeholderValues[v]; placeholder {
			continue
		}
		merged[k] = v
	}

	s.info.Set(key, merged, cache.DefaultExpiration)
	return merged
}

// KnownIdentities returns how many lead identities are currently held
// in the merged-fields cache.
func (s *DeduperService) KnownIdentities() int {
	return s.info.ItemCount()
}

// SweepExpired forces eviction of expired identities and reports the
// remaining count. The cache janitor does this on its own; the sweep
// job calls it for visibility.
func (s *DeduperService) SweepExpired() int {
	before := s.info.ItemCount()
	s.info.DeleteExpired()
	evicted := before - s.info.ItemCount()
	if evicted > 0 {
		log.Printf("🧹 [DEDUPE] Evicted %d expired lead identities", evicted)
	}
	return evicted
}
