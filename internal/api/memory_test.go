package api

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

type memCredentials struct {
	mu     sync.Mutex
	byName map[string]domain.Credential
}

func newMemCredentials() *memCredentials {
	return &memCredentials{byName: map[string]domain.Credential{}}
}

func (m *memCredentials) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[cred.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	m.byName[cred.Username] = *cred
	out := *cred
	return &out, nil
}

func (m *memCredentials) FindByUsername(_ context.Context, username string) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return &c, nil
}

func (m *memCredentials) FindByID(_ context.Context, id uuid.UUID) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byName {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCredentialNotFound
}

func (m *memCredentials) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[username]
	return ok, nil
}

type memDevices struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Device
}

func newMemDevices() *memDevices {
	return &memDevices{byID: map[uuid.UUID]domain.Device{}}
}

func (m *memDevices) filter(keep func(domain.Device) bool) []*domain.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Device
	for _, d := range m.byID {
		if keep(d) {
			d := d
			out = append(out, &d)
		}
	}
	return out
}

func (m *memDevices) List(context.Context) ([]*domain.Device, error) {
	return m.filter(func(domain.Device) bool { return true }), nil
}

func (m *memDevices) FindByID(_ context.Context, id uuid.UUID) (*domain.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return &d, nil
}

func (m *memDevices) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Device, error) {
	return m.filter(func(d domain.Device) bool { return d.OwnedBy(ownerID) }), nil
}

func (m *memDevices) FindUnassigned(context.Context) ([]*domain.Device, error) {
	return m.filter(func(d domain.Device) bool { return d.OwnerID == nil }), nil
}

func (m *memDevices) Save(_ context.Context, d *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[d.ID] = *d
	return nil
}

func (m *memDevices) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrDeviceNotFound
	}
	delete(m.byID, id)
	return nil
}

type memProfiles struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.UserProfile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: map[uuid.UUID]domain.UserProfile{}}
}

func (m *memProfiles) List(context.Context) ([]*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.UserProfile, 0, len(m.byID))
	for _, p := range m.byID {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (m *memProfiles) FindByID(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memProfiles) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memProfiles) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProfiles) Save(_ context.Context, p *domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = *p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.byID, id)
	return nil
}
