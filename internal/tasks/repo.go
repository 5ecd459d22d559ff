package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type NewTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   string     `json:"project_id"`
	AssigneeID  *string    `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// Patch carries the mutable task fields; nil means leave unchanged.
type Patch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// Filter narrows List; empty fields match everything.
type Filter struct {
	ProjectID  string
	AssigneeID string
}

const taskColumns = `id, title, description, status, priority, project_id, assignee_id, due_date, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, nt NewTask) (*Task, error) {
	if nt.Title == "" {
		return nil, fmt.Errorf("title required")
	}
	if nt.ProjectID == "" {
		return nil, fmt.Errorf("project id required")
	}
	if nt.Status == "" {
		nt.Status = StatusTodo
	}
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	if !ValidStatus(nt.Status) {
		return nil, fmt.Errorf("invalid status %q", nt.Status)
	}
	if !ValidPriority(nt.Priority) {
		return nil, fmt.Errorf("invalid priority %q", nt.Priority)
	}

	q := `
insert into tasks (id, title, description, status, priority, project_id, assignee_id, due_date)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning ` + taskColumns + `;`

	var t Task
	err := r.db.QueryRow(ctx, q,
		uuid.New().String(), nt.Title, nt.Description, nt.Status, nt.Priority, nt.ProjectID, nt.AssigneeID, nt.DueDate).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Task, error) {
	q := `
select ` + taskColumns + `
from tasks
where ($1 = '' or project_id = $1)
  and ($2 = '' or assignee_id = $2)
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, f.ProjectID, f.AssigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Task, error) {
	q := `select ` + taskColumns + ` from tasks where id = $1;`

	var t Task
	err := r.db.QueryRow(ctx, q, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Update(ctx context.Context, id string, patch Patch) (*Task, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}
	if patch.Priority != nil && !ValidPriority(*patch.Priority) {
		return nil, fmt.Errorf("invalid priority %q", *patch.Priority)
	}

	q := `
update tasks
set title = coalesce($2, title),
    description = coalesce($3, description),
    status = coalesce($4, status),
    priority = coalesce($5, priority),
    assignee_id = coalesce($6, assignee_id),
    due_date = coalesce($7, due_date),
    updated_at = now()
where id = $1
returning ` + taskColumns + `;`

	var t Task
	err := r.db.QueryRow(ctx, q, id, patch.Title, patch.Description, patch.Status, patch.Priority, patch.AssigneeID, patch.DueDate).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `delete from tasks where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// DueWithin returns unfinished tasks whose due date falls inside the
// window starting now. Used by the reminder job.
func (r *Repo) DueWithin(ctx context.Context, window time.Duration) ([]Task, error) {
	q := `
select ` + taskColumns + `
from tasks
where status <> $1
  and due_date is not null
  and due_date <= now() + $2
order by due_date;
`
	rows, err := r.db.Query(ctx, q, StatusCompleted, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
