package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, user_id, doctor_id, doctor_info, user_info, date, time, status,
	document, prescription, visit_summary, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.DoctorID,
		&a.DoctorInfo,
		&a.UserInfo,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Document,
		&a.Prescription,
		&a.VisitSummary,
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

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
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

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) FindActiveForSlot(ctx context.Context, doctorID uuid.UUID, date, time string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND date = $2
		  AND time = $3
		  AND status IN ('pending', 'approved')
	`, doctorID, date, time)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	doctorInfo, err := json.Marshal(a.DoctorInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal doctor snapshot: %w", err)
	}
	userInfo, err := json.Marshal(a.UserInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal user snapshot: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, user_id, doctor_id, doctor_info, user_info, date, time,
		                          status, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns,
		a.ID, a.UserID, a.DoctorID, string(doctorInfo), string(userInfo), a.Date, a.Time,
		string(a.Status), a.Document)

	return scanAppointment(row)
}

func (r *PgRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = ANY($3::text[])
		RETURNING `+appointmentColumns,
		id, string(to), statusStrings(from))

	return scanAppointment(row)
}

func (r *PgRepository) Complete(ctx context.Context, id uuid.UUID, prescription, visitSummary string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'completed',
		    prescription = $2,
		    visit_summary = $3,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'approved'
		RETURNING `+appointmentColumns,
		id, prescription, visitSummary)

	return scanAppointment(row)
}

func (r *PgRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`, doctorID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}
