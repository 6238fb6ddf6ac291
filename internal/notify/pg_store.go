package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccountNotFound = errors.New("account not found")

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Entry encodes n as a one-element JSON array so it can be concatenated
// onto a jsonb list in place with `list || $n::jsonb`.
func Entry(n Notification) (string, error) {
	data, err := json.Marshal([]Notification{n})
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}
	return string(data), nil
}

func (s *PgStore) AppendUnseen(ctx context.Context, accountID uuid.UUID, n Notification) error {
	entry, err := Entry(n)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET unseen_notifications = unseen_notifications || $2::jsonb,
		    updated_at = now()
		WHERE id = $1
	`, accountID, entry)
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (s *PgStore) AppendUnseenToAdmins(ctx context.Context, n Notification) (int64, error) {
	entry, err := Entry(n)
	if err != nil {
		return 0, err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET unseen_notifications = unseen_notifications || $1::jsonb,
		    updated_at = now()
		WHERE is_admin
	`, entry)
	if err != nil {
		return 0, fmt.Errorf("append admin notification: %w", err)
	}

	return tag.RowsAffected(), nil
}
