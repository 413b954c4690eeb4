package tenants

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	apperrors "github.com/auditops/audit-relay/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu      sync.RWMutex
	tenants map[string]*Tenant
}

// NewInMemoryRepo creates a new in-memory tenant repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		tenants: make(map[string]*Tenant),
	}
}

// LoadFile reads a per-tenant credentials file (JSON object keyed by tenant
// id) into a new repository.
func LoadFile(path string) (*InMemoryRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[tenants LoadFile] read %s: %w", path, err)
	}

	entries := map[string]*Tenant{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("[tenants LoadFile] parse %s: %w", path, err)
	}

	repo := NewInMemoryRepo()
	for id, t := range entries {
		t.ID = id
		if err := repo.Upsert(t); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// Upsert stores or replaces a tenant entry
func (r *InMemoryRepo) Upsert(tenantData *Tenant) error {
	if tenantData == nil || tenantData.ID == "" {
		return fmt.Errorf("tenant id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *tenantData
	r.tenants[tenantData.ID] = &copied
	return nil
}

// Get retrieves a tenant by id
func (r *InMemoryRepo) Get(tenantID string) (*Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrTenantNotFound, "tenant %q", tenantID)
	}

	copied := *t
	return &copied, nil
}

// List returns all tenants ordered by id
func (r *InMemoryRepo) List() ([]*Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		copied := *t
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}
