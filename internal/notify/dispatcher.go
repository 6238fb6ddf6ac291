package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultJobTimeout = 15 * time.Second

type jobKind int

const (
	jobAccount jobKind = iota
	jobAdmins
	jobEmail
)

type job struct {
	kind         jobKind
	accountID    uuid.UUID
	notification Notification
	to           string
	subject      string
	body         string
}

// Dispatcher is the background Emitter. Jobs are queued on a buffered
// channel and drained by Run's workers; a full queue drops the job.
type Dispatcher struct {
	store      Store
	mailer     Mailer
	jobs       chan job
	jobTimeout time.Duration
	now        func() time.Time
}

func NewDispatcher(store Store, mailer Mailer, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		store:      store,
		mailer:     mailer,
		jobs:       make(chan job, queueSize),
		jobTimeout: defaultJobTimeout,
		now:        time.Now,
	}
}

func (d *Dispatcher) NotifyAccount(accountID uuid.UUID, n Notification) {
	d.enqueue(job{kind: jobAccount, accountID: accountID, notification: d.stamp(n)})
}

func (d *Dispatcher) NotifyAdmins(n Notification) {
	d.enqueue(job{kind: jobAdmins, notification: d.stamp(n)})
}

func (d *Dispatcher) Email(to, subject, body string) {
	if to == "" {
		return
	}
	d.enqueue(job{kind: jobEmail, to: to, subject: subject, body: body})
}

func (d *Dispatcher) stamp(n Notification) Notification {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now().UTC()
	}
	return n
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		log.Warn().
			Int("kind", int(j.kind)).
			Str("type", j.notification.Type).
			Msg("notification queue full, dropping job")
	}
}

// Run starts workerCount workers and blocks until ctx is done and every
// job already accepted into the queue has been handled.
func (d *Dispatcher) Run(ctx context.Context, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			log.Debug().Int("worker", id).Msg("notification worker started")

			for {
				select {
				case <-ctx.Done():
					log.Debug().Int("worker", id).Msg("notification worker shutting down")
					d.drain()
					return
				case j := <-d.jobs:
					d.handle(j)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	log.Info().Msg("notification dispatcher stopped")
}

// drain handles queued jobs until the queue is empty. Jobs enqueued after
// this returns are not picked up.
func (d *Dispatcher) drain() {
	for {
		select {
		case j := <-d.jobs:
			d.handle(j)
		default:
			return
		}
	}
}

// handle runs one job detached from any request context. Errors are logged
// and swallowed.
func (d *Dispatcher) handle(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	switch j.kind {
	case jobAccount:
		if err := d.store.AppendUnseen(ctx, j.accountID, j.notification); err != nil {
			log.Error().Err(err).
				Str("account_id", j.accountID.String()).
				Str("type", j.notification.Type).
				Msg("failed to append notification")
		}
	case jobAdmins:
		n, err := d.store.AppendUnseenToAdmins(ctx, j.notification)
		if err != nil {
			log.Error().Err(err).Str("type", j.notification.Type).Msg("failed to notify admins")
			return
		}
		if n == 0 {
			log.Warn().Str("type", j.notification.Type).Msg("no administrator accounts to notify")
		}
	case jobEmail:
		if d.mailer == nil {
			return
		}
		if err := d.mailer.Send(ctx, j.to, j.subject, j.body); err != nil {
			log.Error().Err(err).Str("to", j.to).Str("subject", j.subject).Msg("failed to send email")
			return
		}
		log.Info().Str("to", j.to).Str("subject", j.subject).Msg("email sent")
	}
}
