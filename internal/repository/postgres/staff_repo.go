package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventcheckin/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type staffRepository struct {
	DB *sql.DB
}

func NewStaffRepository(db *sql.DB) domain.StaffRepository {
	return &staffRepository{DB: db}
}

func (r *staffRepository) Create(ctx context.Context, s *domain.Staff) error {
	query := `
		INSERT INTO staff (name, email, password_hash, salt, role, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.Name, s.Email, s.PasswordHash, s.Salt, s.Role, s.CreatedBy, s.CreatedAt).
		Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, salt, role, created_by, last_login, created_at
		FROM staff
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, salt, role, created_by, last_login, created_at
		FROM staff
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *staffRepository) scanOne(row *sql.Row) (*domain.Staff, error) {
	s := &domain.Staff{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Salt, &s.Role, &s.CreatedBy, &s.LastLogin, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *staffRepository) List(ctx context.Context) ([]*domain.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, salt, role, created_by, last_login, created_at
		FROM staff
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []*domain.Staff
	for rows.Next() {
		s := &domain.Staff{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Salt, &s.Role, &s.CreatedBy, &s.LastLogin, &s.CreatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []*domain.Staff{}
	}
	return staff, nil
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	query := `
		UPDATE staff
		SET password_hash = $2, salt = $3
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, passwordHash, salt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *staffRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE staff
		SET last_login = $2
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, at)
	return err
}
