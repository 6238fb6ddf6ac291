package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/doctor"
	redisclient "github.com/hackgods/docspot/internal/redis"
)

type memoryRepo struct {
	mu    sync.Mutex
	appts map[uuid.UUID]*Appointment
	clock time.Time
	// hold widens the window between the conflict check and the insert.
	hold time.Duration
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		appts: make(map[uuid.UUID]*Appointment),
		clock: time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *memoryRepo) FindActiveForSlot(_ context.Context, doctorID uuid.UUID, date, tod string) ([]Appointment, error) {
	r.mu.Lock()
	var out []Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date == date && a.Time == tod &&
			(a.Status == StatusPending || a.Status == StatusApproved) {
			out = append(out, *a)
		}
	}
	hold := r.hold
	r.mu.Unlock()

	if hold > 0 {
		time.Sleep(hold)
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.clock = r.clock.Add(time.Second)
	a.CreatedAt, a.UpdatedAt = r.clock, r.clock
	stored := a
	r.appts[a.ID] = &stored
	return &a, nil
}

func (r *memoryRepo) Transition(_ context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, f := range from {
		if a.Status == f {
			a.Status = to
			c := *a
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Complete(_ context.Context, id uuid.UUID, prescription, visitSummary string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || a.Status != StatusApproved {
		return nil, ErrNotFound
	}
	a.Status = StatusCompleted
	a.Prescription, a.VisitSummary = prescription, visitSummary
	c := *a
	return &c, nil
}

func (r *memoryRepo) list(match func(*Appointment) bool) []Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Appointment{}
	for _, a := range r.appts {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool { return a.UserID == userID }), nil
}

func (r *memoryRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return r.list(func(a *Appointment) bool { return a.DoctorID == doctorID }), nil
}

type fakeDoctors struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*doctor.Profile
}

func (f *fakeDoctors) add(p doctor.Profile) *doctor.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profiles == nil {
		f.profiles = make(map[uuid.UUID]*doctor.Profile)
	}
	f.profiles[p.ID] = &p
	return &p
}

func (f *fakeDoctors) GetByID(_ context.Context, id uuid.UUID) (*doctor.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeDoctors) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

type fakePatients map[uuid.UUID]*account.Account

func (f fakePatients) Profile(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := f[id]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	c := *a
	return &c, nil
}

// mutexLocker serializes per slot key in process, standing in for Redis.
type mutexLocker struct {
	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

func (l *mutexLocker) WithSlotLock(ctx context.Context, key redisclient.SlotKey, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.slots == nil {
		l.slots = make(map[string]*sync.Mutex)
	}
	m, ok := l.slots[key.String()]
	if !ok {
		m = &sync.Mutex{}
		l.slots[key.String()] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(context.Context, redisclient.SlotKey, func(context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}
