package profile

import (
	"fmt"
	"sync"
	"time"
)

// Store defines the persistence operations the Manager needs.
// Implemented by storage.Store. LoadProfile returns a zero-value Profile
// when nothing has been persisted yet.
type Store interface {
	LoadProfile() (Profile, error)
	SaveProfile(Profile) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached access to the persisted profile. Reads are served
// from cache within the TTL; every save goes straight to the store and
// refreshes the cache, so a successful Put is always durable.
type Manager struct {
	store Store
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   *Profile
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		clock: realClock{},
		ttl:   60 * time.Second,
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Get returns a deep copy of the current profile, reading from the store
// on cache miss.
func (m *Manager) Get() (Profile, error) {
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		p := m.cached.Clone()
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return m.cached.Clone(), nil
	}

	p, err := m.store.LoadProfile()
	if err != nil {
		return Profile{}, fmt.Errorf("loading profile: %w", err)
	}

	m.cached = &p
	m.cachedAt = m.clock.Now()
	return p.Clone(), nil
}

// Put stamps LastUpdated and persists the profile. The cache is only
// refreshed after the store accepts the write.
func (m *Manager) Put(p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.LastUpdated = m.clock.Now()

	if err := m.store.SaveProfile(p); err != nil {
		m.cached = nil
		return fmt.Errorf("saving profile: %w", err)
	}

	cp := p.Clone()
	m.cached = &cp
	m.cachedAt = m.clock.Now()
	return nil
}
