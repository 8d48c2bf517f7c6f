package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aarogyalekha/hospital-portal/internal/models"
)

// FileStore implements Store on a JSON file, the portal's equivalent of
// browser-local storage: local to one machine, survives restarts, no
// expiry tracked. An expired-but-present token is only discovered when
// the server rejects it.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	slots fileSlots
}

type fileSlots struct {
	Admin  *Credential `json:"admin,omitempty"`
	Doctor *Credential `json:"doctor,omitempty"`
}

// NewFileStore opens (or creates on first write) the session file at
// path. A missing file means logged out everywhere.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(data, &fs.slots); err != nil {
		// A corrupt session file is treated as logged out rather than
		// blocking startup; the next login overwrites it.
		fs.slots = fileSlots{}
	}
	return fs, nil
}

// SetCredential writes role's credential, dropping the other role's first.
func (f *FileStore) SetCredential(ctx context.Context, role Role, token string, user models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cred := &Credential{Role: role, Token: token, User: user}
	if role == RoleAdmin {
		f.slots = fileSlots{Admin: cred}
	} else {
		f.slots = fileSlots{Doctor: cred}
	}
	return f.flush()
}

// GetCredential returns role's credential, or ErrNoCredential.
func (f *FileStore) GetCredential(ctx context.Context, role Role) (*Credential, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cred := f.get(role)
	if cred == nil {
		return nil, ErrNoCredential
	}
	c := *cred
	return &c, nil
}

// Clear removes role's credential. Clearing an empty slot is a no-op.
func (f *FileStore) Clear(ctx context.Context, role Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.get(role) == nil {
		return nil
	}
	if role == RoleAdmin {
		f.slots.Admin = nil
	} else {
		f.slots.Doctor = nil
	}
	return f.flush()
}

// Snapshot returns a copy of both slots.
func (f *FileStore) Snapshot(ctx context.Context) (Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var snap Snapshot
	if f.slots.Admin != nil {
		c := *f.slots.Admin
		snap.Admin = &c
	}
	if f.slots.Doctor != nil {
		c := *f.slots.Doctor
		snap.Doctor = &c
	}
	return snap, nil
}

func (f *FileStore) get(role Role) *Credential {
	if role == RoleAdmin {
		return f.slots.Admin
	}
	return f.slots.Doctor
}

// flush rewrites the session file. Tokens are secrets, so the file and
// its directory are restricted to the owner.
func (f *FileStore) flush() error {
	data, err := json.MarshalIndent(f.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
