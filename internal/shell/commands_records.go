package shell

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/taskdesk/internal/deployment"
)

type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func projectResponse(p *deployment.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}

func taskResponse(t *deployment.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   formatTimestamp(t.CreatedAt),
		UpdatedAt:   formatTimestamp(t.UpdatedAt),
	}
}

// parseID maps any malformed identifier onto NotFound; to the caller a bad id
// and a missing record mean the same thing.
func parseID(entity, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, NotFound("Invalid %s ID: %s", entity, s)
	}
	return id, nil
}

type idParams struct {
	ID string `json:"id"`
}

// projectIDParams accepts both the camelCase key the window sends and the
// snake_case key used by the REST routes.
type projectIDParams struct {
	ProjectID      string `json:"projectId"`
	ProjectIDSnake string `json:"project_id"`
}

func (p projectIDParams) projectID() string {
	if p.ProjectID != "" {
		return p.ProjectID
	}
	return p.ProjectIDSnake
}

type createProjectParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateProjectParams struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type createTaskParams struct {
	projectIDParams
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type updateTaskParams struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func getProjects(ctx context.Context, app *App, _ json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	projects, err := d.DB().ListProjects(ctx)
	if err != nil {
		return nil, DatabaseError(err)
	}
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponse(p))
	}
	return out, nil
}

func getProject(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[idParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("project", p.ID)
	if err != nil {
		return nil, err
	}
	project, err := d.DB().GetProject(ctx, id)
	if err != nil {
		return nil, DatabaseError(err)
	}
	if project == nil {
		return nil, NotFound("Project not found: %s", p.ID)
	}
	return projectResponse(project), nil
}

func createProject(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[createProjectParams](raw)
	if err != nil {
		return nil, err
	}
	project, err := d.CreateProject(ctx, p.Name, p.Description)
	if err != nil {
		return nil, engineError(err)
	}
	return projectResponse(project), nil
}

func updateProject(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[updateProjectParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("project", p.ID)
	if err != nil {
		return nil, err
	}
	project, err := d.DB().UpdateProject(ctx, id, deployment.ProjectUpdate{
		Name:        p.Name,
		Description: p.Description,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return projectResponse(project), nil
}

func deleteProject(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[idParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("project", p.ID)
	if err != nil {
		return nil, err
	}
	if err := d.DB().DeleteProject(ctx, id); err != nil {
		return nil, storeError(err)
	}
	return nil, nil
}

func getTasks(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[projectIDParams](raw)
	if err != nil {
		return nil, err
	}
	projectID, err := parseID("project", p.projectID())
	if err != nil {
		return nil, err
	}
	tasks, err := d.DB().ListTasks(ctx, projectID)
	if err != nil {
		return nil, DatabaseError(err)
	}
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse(t))
	}
	return out, nil
}

func getTask(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[idParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("task", p.ID)
	if err != nil {
		return nil, err
	}
	task, err := d.DB().GetTask(ctx, id)
	if err != nil {
		return nil, DatabaseError(err)
	}
	if task == nil {
		return nil, NotFound("Task not found: %s", p.ID)
	}
	return taskResponse(task), nil
}

func createTask(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[createTaskParams](raw)
	if err != nil {
		return nil, err
	}
	projectID, err := parseID("project", p.projectID())
	if err != nil {
		return nil, err
	}
	task, err := d.CreateTask(ctx, projectID, p.Title, p.Description)
	if err != nil {
		return nil, engineError(err)
	}
	return taskResponse(task), nil
}

func updateTask(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[updateTaskParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("task", p.ID)
	if err != nil {
		return nil, err
	}

	upd := deployment.TaskUpdate{Title: p.Title, Description: p.Description}
	if p.Status != nil {
		st, err := deployment.ParseTaskStatus(*p.Status)
		if err != nil {
			return nil, DeploymentError(err)
		}
		upd.Status = &st
	}

	task, err := d.DB().UpdateTask(ctx, id, upd)
	if err != nil {
		return nil, storeError(err)
	}
	return taskResponse(task), nil
}

func deleteTask(ctx context.Context, app *App, raw json.RawMessage) (any, error) {
	d, err := app.Handle.Require()
	if err != nil {
		return nil, err
	}
	p, err := decodeParams[idParams](raw)
	if err != nil {
		return nil, err
	}
	id, err := parseID("task", p.ID)
	if err != nil {
		return nil, err
	}
	if err := d.DB().DeleteTask(ctx, id); err != nil {
		return nil, storeError(err)
	}
	return nil, nil
}
