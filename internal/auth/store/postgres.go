package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

// PostgresStore backs the credential store with an accounts table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
select id, name, email, password_hash, role, created_at, updated_at
from accounts
where email = $1;
`
	var acc domain.Account
	err := s.db.QueryRow(ctx, q, email).
		Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	const q = `
select id, name, email, password_hash, role, created_at, updated_at
from accounts
where id = $1;
`
	var acc domain.Account
	err := s.db.QueryRow(ctx, q, id).
		Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) Insert(ctx context.Context, acc *domain.Account) error {
	const q = `
insert into accounts (id, name, email, password_hash, role)
values ($1, $2, $3, $4, $5)
returning created_at, updated_at;
`
	err := s.db.QueryRow(ctx, q, acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.Role).
		Scan(&acc.CreatedAt, &acc.UpdatedAt)

	// unique violation on email
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `
update accounts
set password_hash = $2, updated_at = now()
where email = $1;
`
	ct, err := s.db.Exec(ctx, q, email, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, id, name, email string) (*domain.Account, error) {
	const q = `
update accounts
set name = $2, email = $3, updated_at = now()
where id = $1
returning id, name, email, password_hash, role, created_at, updated_at;
`
	var acc domain.Account
	err := s.db.QueryRow(ctx, q, id, name, email).
		Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, domain.ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.Account, error) {
	const q = `
select id, name, email, password_hash, role, created_at, updated_at
from accounts
order by created_at;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Account, 0, 16)
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}
