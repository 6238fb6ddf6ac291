package doctor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

type owner struct {
	email    string
	isDoctor bool
	unseen   []notify.Notification
}

type memoryRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*Profile
	owners   map[uuid.UUID]*owner
	clock    time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		profiles: make(map[uuid.UUID]*Profile),
		owners:   make(map[uuid.UUID]*owner),
		clock:    time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) addOwner(email string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.owners[id] = &owner{email: email}
	return id
}

func (r *memoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func apply(p *Profile, app Application) {
	p.FirstName, p.LastName = app.FirstName, app.LastName
	p.Phone, p.Website, p.Address = app.Phone, app.Website, app.Address
	p.Specialization, p.Experience = app.Specialization, app.Experience
	p.Fee, p.Timings = app.Fee, app.Timings
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *memoryRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func contains(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(strings.TrimSpace(needle)))
}

func (r *memoryRepo) ListApproved(_ context.Context, f Filter) ([]Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Profile{}
	for _, p := range r.profiles {
		if p.Status != StatusApproved {
			continue
		}
		if f.Specialization != "" && !strings.EqualFold(f.Specialization, "all") && !contains(p.Specialization, f.Specialization) {
			continue
		}
		if f.Search != "" && !contains(p.FirstName, f.Search) && !contains(p.LastName, f.Search) && !contains(p.Address, f.Search) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryRepo) ListAll(_ context.Context) ([]Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Listing{}
	for _, p := range r.profiles {
		email := "N/A"
		if o, ok := r.owners[p.UserID]; ok {
			email = o.email
		}
		out = append(out, Listing{Profile: *p, Email: email})
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, userID uuid.UUID, app Application) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			return nil, ErrAlreadyExists
		}
	}
	now := r.tick()
	p := &Profile{ID: uuid.New(), UserID: userID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	apply(p, app)
	r.profiles[p.ID] = p
	c := *p
	return &c, nil
}

func (r *memoryRepo) Reapply(_ context.Context, id uuid.UUID, app Application) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.Status != StatusRejected {
		return nil, ErrNotFound
	}
	apply(p, app)
	p.Status = StatusPending
	p.UpdatedAt = r.tick()
	c := *p
	return &c, nil
}

func (r *memoryRepo) Update(_ context.Context, userID uuid.UUID, app Application) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			apply(p, app)
			p.UpdatedAt = r.tick()
			c := *p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) ChangeStatus(_ context.Context, id uuid.UUID, status Status, n notify.Notification) (*Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = r.tick()

	email := ""
	if o, ok := r.owners[p.UserID]; ok {
		o.isDoctor = status == StatusApproved
		o.unseen = append(o.unseen, n)
		email = o.email
	}
	return &Listing{Profile: *p, Email: email}, nil
}
