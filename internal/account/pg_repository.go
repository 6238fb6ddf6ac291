package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/docspot/internal/notify"
)

const uniqueViolation = "23505"

// accountColumns is selected from users aliased u, left-joined to doctors d.
const accountColumns = `
	u.id, u.name, u.email, u.password_hash, u.phone,
	u.is_admin, u.is_doctor, u.is_blocked, u.is_verified, u.otp,
	u.unseen_notifications, u.seen_notifications,
	COALESCE(d.status, ''), u.created_at, u.updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Phone,
		&a.IsAdmin,
		&a.IsDoctor,
		&a.IsBlocked,
		&a.IsVerified,
		&a.OTP,
		&a.UnseenNotifications,
		&a.SeenNotifications,
		&a.DoctorStatus,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &a, nil
}

// updateReturning runs an UPDATE on users and re-reads the row with the
// doctor status joined in, in a single statement.
func (r *PgRepository) updateReturning(ctx context.Context, update string, args ...any) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		WITH u AS (`+update+` RETURNING *)
		SELECT `+accountColumns+`
		FROM u
		LEFT JOIN doctors d ON d.user_id = u.id
	`, args...)
	return scanAccount(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users u
		LEFT JOIN doctors d ON d.user_id = u.id
		WHERE u.id = $1
	`, id)
	return scanAccount(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users u
		LEFT JOIN doctors d ON d.user_id = u.id
		WHERE u.email = $1
	`, email)
	return scanAccount(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM users u
		LEFT JOIN doctors d ON d.user_id = u.id
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE is_admin)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return exists, nil
}

func (r *PgRepository) Create(ctx context.Context, a Account) (*Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	acc, err := r.updateReturning(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, is_admin, is_verified, otp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Phone, a.IsAdmin, a.IsVerified, a.OTP)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return acc, nil
}

func (r *PgRepository) ResetUnverified(ctx context.Context, id uuid.UUID, name, phone, passwordHash, otp string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2,
		    phone = $3,
		    password_hash = $4,
		    otp = $5,
		    updated_at = now()
		WHERE id = $1
		  AND NOT is_verified
	`, id, name, phone, passwordHash, otp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) MarkVerified(ctx context.Context, id uuid.UUID, otp string) (*Account, error) {
	return r.updateReturning(ctx, `
		UPDATE users
		SET is_verified = TRUE,
		    otp = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND otp = $2`,
		id, otp)
}

func (r *PgRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*Account, error) {
	return r.updateReturning(ctx, `
		UPDATE users
		SET name = $2,
		    phone = $3,
		    updated_at = now()
		WHERE id = $1`,
		id, name, phone)
}

func (r *PgRepository) MarkAllNotificationsSeen(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.updateReturning(ctx, `
		UPDATE users
		SET seen_notifications = seen_notifications || unseen_notifications,
		    unseen_notifications = '[]'::jsonb,
		    updated_at = now()
		WHERE id = $1`,
		id)
}

func (r *PgRepository) DeleteAllNotifications(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.updateReturning(ctx, `
		UPDATE users
		SET seen_notifications = '[]'::jsonb,
		    unseen_notifications = '[]'::jsonb,
		    updated_at = now()
		WHERE id = $1`,
		id)
}

func (r *PgRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool, n notify.Notification) (*Account, error) {
	entry, err := notify.Entry(n)
	if err != nil {
		return nil, err
	}

	return r.updateReturning(ctx, `
		UPDATE users
		SET is_blocked = $2,
		    unseen_notifications = unseen_notifications || $3::jsonb,
		    updated_at = now()
		WHERE id = $1`,
		id, blocked, entry)
}
