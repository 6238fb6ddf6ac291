package account

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

type memoryRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*Account
	clock    time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		accounts: make(map[uuid.UUID]*Account),
		clock:    time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func clone(a *Account) *Account {
	c := *a
	c.UnseenNotifications = append([]notify.Notification{}, a.UnseenNotifications...)
	c.SeenNotifications = append([]notify.Notification{}, a.SeenNotifications...)
	if a.OTP != nil {
		otp := *a.OTP
		c.OTP = &otp
	}
	return &c
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(a), nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return clone(a), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) List(_ context.Context) ([]Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Account{}
	for _, a := range r.accounts {
		out = append(out, *clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) AdminExists(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Create(_ context.Context, a Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, ErrEmailTaken
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := r.tick()
	a.CreatedAt, a.UpdatedAt = now, now
	a.UnseenNotifications = []notify.Notification{}
	a.SeenNotifications = []notify.Notification{}
	r.accounts[a.ID] = clone(&a)
	return clone(&a), nil
}

func (r *memoryRepo) ResetUnverified(_ context.Context, id uuid.UUID, name, phone, passwordHash, otp string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.IsVerified {
		return ErrNotFound
	}
	a.Name, a.Phone, a.PasswordHash, a.OTP = name, phone, passwordHash, &otp
	return nil
}

func (r *memoryRepo) MarkVerified(_ context.Context, id uuid.UUID, otp string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.OTP == nil || *a.OTP != otp {
		return nil, ErrNotFound
	}
	a.IsVerified = true
	a.OTP = nil
	return clone(a), nil
}

func (r *memoryRepo) update(id uuid.UUID, fn func(a *Account)) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(a)
	a.UpdatedAt = r.tick()
	return clone(a), nil
}

func (r *memoryRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, phone string) (*Account, error) {
	return r.update(id, func(a *Account) { a.Name, a.Phone = name, phone })
}

func (r *memoryRepo) MarkAllNotificationsSeen(_ context.Context, id uuid.UUID) (*Account, error) {
	return r.update(id, func(a *Account) {
		a.SeenNotifications = append(a.SeenNotifications, a.UnseenNotifications...)
		a.UnseenNotifications = []notify.Notification{}
	})
}

func (r *memoryRepo) DeleteAllNotifications(_ context.Context, id uuid.UUID) (*Account, error) {
	return r.update(id, func(a *Account) {
		a.SeenNotifications = []notify.Notification{}
		a.UnseenNotifications = []notify.Notification{}
	})
}

func (r *memoryRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool, n notify.Notification) (*Account, error) {
	return r.update(id, func(a *Account) {
		a.IsBlocked = blocked
		a.UnseenNotifications = append(a.UnseenNotifications, n)
	})
}

func (r *memoryRepo) push(id uuid.UUID, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.accounts[id]
	a.UnseenNotifications = append(a.UnseenNotifications, n)
}
