package gameserver

import "sync"

// LockManager grants at most one in-flight mutation per character.
//
// Acquisition never blocks: a busy character is reported to the caller, who
// rejects the request instead of queueing it.
type LockManager struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewLockManager returns a LockManager with no locks held.
func NewLockManager() *LockManager {
	return &LockManager{held: make(map[int64]struct{})}
}

// TryLock acquires the lock for characterID.
//
// Postcondition: On success the returned release func must be called exactly
// once; ok is false if the lock is already held.
func (m *LockManager) TryLock(characterID int64) (release func(), ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[characterID]; busy {
		return nil, false
	}
	m.held[characterID] = struct{}{}
	return func() {
		m.mu.Lock()
		delete(m.held, characterID)
		m.mu.Unlock()
	}, true
}

// Held reports whether characterID is locked.
func (m *LockManager) Held(characterID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, busy := m.held[characterID]
	return busy
}
