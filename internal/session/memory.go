package session

import (
	"context"
	"sync"

	"github.com/aarogyalekha/hospital-portal/internal/models"
)

// MemoryStore implements Store in process memory. Sessions do not
// survive a restart; it exists as the injectable stand-in for tests and
// for throwaway runs.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[Role]*Credential
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[Role]*Credential),
	}
}

// SetCredential writes role's credential, dropping the other role's first.
func (m *MemoryStore) SetCredential(ctx context.Context, role Role, token string, user models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, role.Other())
	m.slots[role] = &Credential{Role: role, Token: token, User: user}
	return nil
}

// GetCredential returns role's credential, or ErrNoCredential.
func (m *MemoryStore) GetCredential(ctx context.Context, role Role) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, ok := m.slots[role]
	if !ok {
		return nil, ErrNoCredential
	}
	c := *cred
	return &c, nil
}

// Clear removes role's credential. Clearing an empty slot is a no-op.
func (m *MemoryStore) Clear(ctx context.Context, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, role)
	return nil
}

// Snapshot returns a copy of both slots.
func (m *MemoryStore) Snapshot(ctx context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var snap Snapshot
	if cred, ok := m.slots[RoleAdmin]; ok {
		c := *cred
		snap.Admin = &c
	}
	if cred, ok := m.slots[RoleDoctor]; ok {
		c := *cred
		snap.Doctor = &c
	}
	return snap, nil
}
