package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ManagerID   string     `json:"manager_id"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Patch carries the mutable project fields; nil means leave unchanged.
type Patch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Progress    *int       `json:"progress"`
}

func (r *Repo) Create(ctx context.Context, managerID, name, description string, dueDate *time.Time) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}
	if managerID == "" {
		return nil, fmt.Errorf("manager id required")
	}

	const q = `
insert into projects (id, name, description, status, due_date, manager_id)
values ($1, $2, $3, 'active', $4, $5)
returning id, name, description, status, due_date, manager_id, progress, created_at, updated_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, uuid.New().String(), name, description, dueDate, managerID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.DueDate, &p.ManagerID, &p.Progress, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select id, name, description, status, due_date, manager_id, progress, created_at, updated_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.DueDate, &p.ManagerID, &p.Progress, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	const q = `
select id, name, description, status, due_date, manager_id, progress, created_at, updated_at
from projects
where id = $1;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.DueDate, &p.ManagerID, &p.Progress, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, id string, patch Patch) (*Project, error) {
	const q = `
update projects
set name = coalesce($2, name),
    description = coalesce($3, description),
    status = coalesce($4, status),
    due_date = coalesce($5, due_date),
    progress = coalesce($6, progress),
    updated_at = now()
where id = $1
returning id, name, description, status, due_date, manager_id, progress, created_at, updated_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, id, patch.Name, patch.Description, patch.Status, patch.DueDate, patch.Progress).
		Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.DueDate, &p.ManagerID, &p.Progress, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `delete from projects where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
