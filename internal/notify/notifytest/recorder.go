// Package notifytest provides an in-memory notify.Emitter for tests.
package notifytest

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hackgods/docspot/internal/notify"
)

type AccountNotification struct {
	AccountID    uuid.UUID
	Notification notify.Notification
}

type Email struct {
	To      string
	Subject string
	Body    string
}

// Recorder captures emitted side effects synchronously.
type Recorder struct {
	mu       sync.Mutex
	accounts []AccountNotification
	admins   []notify.Notification
	emails   []Email
}

func (r *Recorder) NotifyAccount(accountID uuid.UUID, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = append(r.accounts, AccountNotification{AccountID: accountID, Notification: n})
}

func (r *Recorder) NotifyAdmins(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append(r.admins, n)
}

func (r *Recorder) Email(to, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, Email{To: to, Subject: subject, Body: body})
}

func (r *Recorder) Accounts() []AccountNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AccountNotification(nil), r.accounts...)
}

func (r *Recorder) Admins() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.admins...)
}

func (r *Recorder) Emails() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Email(nil), r.emails...)
}
