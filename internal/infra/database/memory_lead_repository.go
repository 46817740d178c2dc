package database

import (
	"context"
	"slices"
	"sync"

	"github.com/xavierca1/lead-manager/internal/entity"
)

// MemoryLeadRepository keeps leads in process. Filtering and ordering go
// through entity.LeadFilter.Matches and entity.LeadSort.Compare, so it
// answers queries exactly like the Postgres store.
type MemoryLeadRepository struct {
	mu      sync.RWMutex
	leads   map[string]*entity.Lead
	byEmail map[string]string
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads:   make(map[string]*entity.Lead),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[lead.Email]; taken {
		return entity.ErrEmailAlreadyExists
	}
	r.leads[lead.ID] = cloneLead(lead)
	r.byEmail[lead.Email] = lead.ID
	return nil
}

func (r *MemoryLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return cloneLead(l), nil
}

func (r *MemoryLeadRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	return ok && id != excludeID, nil
}

func (r *MemoryLeadRepository) Find(ctx context.Context, q entity.LeadQuery) ([]entity.Lead, error) {
	matched := r.snapshot(q.Filter, q.Sort)

	start := min(max(q.Offset(), 0), len(matched))
	end := start + min(max(q.Limit, 0), len(matched)-start)

	out := make([]entity.Lead, 0, end-start)
	for _, l := range matched[start:end] {
		out = append(out, *l)
	}
	return out, nil
}

func (r *MemoryLeadRepository) Count(ctx context.Context, f entity.LeadFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.leads {
		if f.Matches(l) {
			n++
		}
	}
	return n, nil
}

// Each iterates over a snapshot, so fn may call back into the repository.
func (r *MemoryLeadRepository) Each(ctx context.Context, f entity.LeadFilter, s entity.LeadSort, fn func(*entity.Lead) error) error {
	for _, l := range r.snapshot(f, s) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.leads[lead.ID]
	if !ok {
		return entity.ErrLeadNotFound
	}
	if current.Email != lead.Email {
		if _, taken := r.byEmail[lead.Email]; taken {
			return entity.ErrEmailAlreadyExists
		}
		delete(r.byEmail, current.Email)
		r.byEmail[lead.Email] = lead.ID
	}
	r.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *MemoryLeadRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	delete(r.byEmail, l.Email)
	delete(r.leads, id)
	return nil
}

func (r *MemoryLeadRepository) snapshot(f entity.LeadFilter, s entity.LeadSort) []*entity.Lead {
	r.mu.RLock()
	matched := make([]*entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if f.Matches(l) {
			matched = append(matched, cloneLead(l))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, s.Compare)
	return matched
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	if l.LastActivityAt != nil {
		t := *l.LastActivityAt
		c.LastActivityAt = &t
	}
	if l.AssignedTo != nil {
		a := *l.AssignedTo
		c.AssignedTo = &a
	}
	return &c
}
