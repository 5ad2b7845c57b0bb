package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/taskdesk/internal/deployment"
	"github.com/mattjoyce/taskdesk/internal/storage"
)

// Store implements deployment.Store over SQLite.
type Store struct {
	db *sql.DB
}

var _ deployment.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProjects(ctx context.Context) ([]*deployment.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM projects
ORDER BY created_at DESC, rowid DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*deployment.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("list projects: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*deployment.Project, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM projects
WHERE id = ?;
`, id.String())
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *Store) createProject(ctx context.Context, name string, description *string) (*deployment.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is empty")
	}
	now := time.Now().UTC()
	p := &deployment.Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO projects(id, name, description, created_at, updated_at)
VALUES(?, ?, ?, ?, ?);
`, p.ID.String(), p.Name, description, storage.FormatTime(now), storage.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, id uuid.UUID, upd deployment.ProjectUpdate) (*deployment.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", deployment.ErrProjectNotFound, id)
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
UPDATE projects
SET name = ?, description = ?, updated_at = ?
WHERE id = ?;
`, p.Name, p.Description, storage.FormatTime(p.UpdatedAt), id.String())
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?;`, id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", deployment.ErrProjectNotFound, id)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, projectID uuid.UUID) ([]*deployment.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, project_id, title, description, status, created_at, updated_at
FROM tasks
WHERE project_id = ?
ORDER BY created_at DESC, rowid DESC;
`, projectID.String())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*deployment.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*deployment.Task, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, project_id, title, description, status, created_at, updated_at
FROM tasks
WHERE id = ?;
`, id.String())
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) createTask(ctx context.Context, projectID uuid.UUID, title string, description *string) (*deployment.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("task title is empty")
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", deployment.ErrProjectNotFound, projectID)
	}

	now := time.Now().UTC()
	t := &deployment.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      deployment.TaskStatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tasks(id, project_id, title, description, status, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, t.ID.String(), projectID.String(), title, description, t.Status.String(), storage.FormatTime(now), storage.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, upd deployment.TaskUpdate) (*deployment.Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", deployment.ErrTaskNotFound, id)
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = upd.Description
	}
	if upd.Status != nil {
		st, err := deployment.ParseTaskStatus(upd.Status.String())
		if err != nil {
			return nil, err
		}
		t.Status = st
	}
	t.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, status = ?, updated_at = ?
WHERE id = ?;
`, t.Title, t.Description, t.Status.String(), storage.FormatTime(t.UpdatedAt), id.String())
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", deployment.ErrTaskNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*deployment.Project, error) {
	var (
		p          deployment.Project
		idS        string
		desc       sql.NullString
		createdAtS string
		updatedAtS string
	)
	if err := row.Scan(&idS, &p.Name, &desc, &createdAtS, &updatedAtS); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idS)
	if err != nil {
		return nil, fmt.Errorf("parse project id %q: %w", idS, err)
	}
	p.ID = id
	if desc.Valid {
		p.Description = &desc.String
	}
	p.CreatedAt = storage.ParseTime(createdAtS)
	p.UpdatedAt = storage.ParseTime(updatedAtS)
	return &p, nil
}

func scanTask(row scanner) (*deployment.Task, error) {
	var (
		t          deployment.Task
		idS        string
		projectS   string
		desc       sql.NullString
		statusS    string
		createdAtS string
		updatedAtS string
	)
	if err := row.Scan(&idS, &projectS, &t.Title, &desc, &statusS, &createdAtS, &updatedAtS); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idS)
	if err != nil {
		return nil, fmt.Errorf("parse task id %q: %w", idS, err)
	}
	projectID, err := uuid.Parse(projectS)
	if err != nil {
		return nil, fmt.Errorf("parse project id %q: %w", projectS, err)
	}
	t.ID = id
	t.ProjectID = projectID
	if desc.Valid {
		t.Description = &desc.String
	}
	t.Status = deployment.TaskStatus(statusS)
	t.CreatedAt = storage.ParseTime(createdAtS)
	t.UpdatedAt = storage.ParseTime(updatedAtS)
	return &t, nil
}
