package doctor

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/docspot/internal/notify"
)

const uniqueViolation = "23505"

const profileColumns = `
	d.id, d.user_id, d.first_name, d.last_name, d.phone, d.website, d.address,
	d.specialization, d.experience, d.fee::float8, d.open_time, d.close_time,
	d.status, d.created_at, d.updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanProfile(row pgx.Row, extra ...any) (*Profile, error) {
	var p Profile

	dest := []any{
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Website,
		&p.Address,
		&p.Specialization,
		&p.Experience,
		&p.Fee,
		&p.Timings[0],
		&p.Timings[1],
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

func collectProfiles(rows pgx.Rows) ([]Profile, error) {
	defer rows.Close()

	result := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM doctors d WHERE d.id = $1`, id)
	return scanProfile(row)
}

func (r *PgRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM doctors d WHERE d.user_id = $1`, userID)
	return scanProfile(row)
}

// likePattern turns free text into a case-insensitive substring pattern.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

func (r *PgRepository) ListApproved(ctx context.Context, f Filter) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM doctors d WHERE d.status = 'approved'`
	var args []any

	if spec := strings.TrimSpace(f.Specialization); spec != "" && !strings.EqualFold(spec, "all") {
		args = append(args, likePattern(spec))
		query += ` AND d.specialization ILIKE $1`
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, likePattern(search))
		n := "$" + strconv.Itoa(len(args))
		query += ` AND (d.first_name ILIKE ` + n + ` OR d.last_name ILIKE ` + n + ` OR d.address ILIKE ` + n + `)`
	}
	query += ` ORDER BY d.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`, COALESCE(u.email, 'N/A')
		FROM doctors d
		LEFT JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Listing{}
	for rows.Next() {
		var email string
		p, err := scanProfile(rows, &email)
		if err != nil {
			return nil, err
		}
		result = append(result, Listing{Profile: *p, Email: email})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) Create(ctx context.Context, userID uuid.UUID, app Application) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors AS d (id, user_id, first_name, last_name, phone, website, address,
		                          specialization, experience, fee, open_time, close_time,
		                          status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending', now(), now())
		RETURNING `+profileColumns,
		uuid.New(), userID, app.FirstName, app.LastName, app.Phone, app.Website, app.Address,
		app.Specialization, app.Experience, app.Fee, app.Timings[0], app.Timings[1])

	p, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return p, nil
}

func (r *PgRepository) Reapply(ctx context.Context, id uuid.UUID, app Application) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors AS d
		SET first_name = $2,
		    last_name = $3,
		    phone = $4,
		    website = $5,
		    address = $6,
		    specialization = $7,
		    experience = $8,
		    fee = $9,
		    open_time = $10,
		    close_time = $11,
		    status = 'pending',
		    updated_at = now()
		WHERE d.id = $1
		  AND d.status = 'rejected'
		RETURNING `+profileColumns,
		id, app.FirstName, app.LastName, app.Phone, app.Website, app.Address,
		app.Specialization, app.Experience, app.Fee, app.Timings[0], app.Timings[1])
	return scanProfile(row)
}

func (r *PgRepository) Update(ctx context.Context, userID uuid.UUID, app Application) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors AS d
		SET first_name = $2,
		    last_name = $3,
		    phone = $4,
		    website = $5,
		    address = $6,
		    specialization = $7,
		    experience = $8,
		    fee = $9,
		    open_time = $10,
		    close_time = $11,
		    updated_at = now()
		WHERE d.user_id = $1
		RETURNING `+profileColumns,
		userID, app.FirstName, app.LastName, app.Phone, app.Website, app.Address,
		app.Specialization, app.Experience, app.Fee, app.Timings[0], app.Timings[1])
	return scanProfile(row)
}

func (r *PgRepository) ChangeStatus(ctx context.Context, id uuid.UUID, status Status, n notify.Notification) (*Listing, error) {
	entry, err := notify.Entry(n)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		WITH d AS (
			UPDATE doctors
			SET status = $2,
			    updated_at = now()
			WHERE id = $1
			RETURNING *
		), owner AS (
			UPDATE users
			SET is_doctor = ($2::text = 'approved'),
			    unseen_notifications = unseen_notifications || $3::jsonb,
			    updated_at = now()
			FROM d
			WHERE users.id = d.user_id
			RETURNING users.email
		)
		SELECT `+profileColumns+`, COALESCE((SELECT email FROM owner), '')
		FROM d
	`, id, string(status), entry)

	var email string
	p, err := scanProfile(row, &email)
	if err != nil {
		return nil, err
	}
	return &Listing{Profile: *p, Email: email}, nil
}
