package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frameline/internal/board"
	"frameline/internal/domain"
	"frameline/internal/events"
	"frameline/internal/repo"
)

type TaskRequest struct {
	Title          string
	Description    string
	Priority       domain.Priority
	CompletionDate int64
	AssignedTo     string
	Status         domain.TaskStatus
}

// GetProjectBoard returns the first board of the project.
func (e Engine) GetProjectBoard(ctx context.Context, projectID string) (domain.KanbanBoard, error) {
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.KanbanBoard{}, err
	}
	return primaryBoard(p)
}

func primaryBoard(p domain.Project) (domain.KanbanBoard, error) {
	if len(p.KanbanBoards) == 0 {
		return domain.KanbanBoard{}, fmt.Errorf("board for project %s: %w", p.ID, repo.ErrNotFound)
	}
	return p.KanbanBoards[0], nil
}

func (e Engine) AddTask(ctx context.Context, projectID string, req TaskRequest, actorID string) (domain.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !req.Priority.Valid() {
		return domain.Task{}, fmt.Errorf("invalid priority %q", req.Priority)
	}
	if req.Status == "" {
		req.Status = domain.StatusToDo
	}
	if !req.Status.Valid() {
		return domain.Task{}, fmt.Errorf("invalid status %q", req.Status)
	}
	if req.CompletionDate < 0 {
		return domain.Task{}, errors.New("invalid completionDate: must not be negative")
	}
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.Task{}, err
	}
	if len(p.KanbanBoards) == 0 {
		return domain.Task{}, fmt.Errorf("board for project %s: %w", p.ID, repo.ErrNotFound)
	}
	now := e.nowMillis()
	t := domain.Task{
		ID:             e.newID(),
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		CompletionDate: req.CompletionDate,
		AssignedTo:     req.AssignedTo,
		Status:         req.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := board.AddTask(&p.KanbanBoards[0], t); err != nil {
		return domain.Task{}, err
	}
	p.UpdatedAt = now
	if err := e.Store.UpdateProject(ctx, p); err != nil {
		return domain.Task{}, notFound("project", p.ID, err)
	}
	e.emit(ctx, "task.add", p.ID, "task", t.ID, actorID, events.EventPayload{"status": t.Status, "title": t.Title})
	return t, nil
}

// MoveTask moves a task to the column for status.
func (e Engine) MoveTask(ctx context.Context, projectID, taskID string, status domain.TaskStatus, actorID string) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, errors.New("task id is required")
	}
	if status == "" {
		return domain.Task{}, errors.New("status is required")
	}
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("invalid status %q", status)
	}
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.Task{}, err
	}
	if len(p.KanbanBoards) == 0 {
		return domain.Task{}, fmt.Errorf("board for project %s: %w", p.ID, repo.ErrNotFound)
	}
	_, from, found := board.FindTask(p.KanbanBoards[0], taskID)
	if !found {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, repo.ErrNotFound)
	}
	now := e.nowMillis()
	t, err := board.MoveTask(&p.KanbanBoards[0], taskID, status, now)
	if err != nil {
		return domain.Task{}, err
	}
	p.UpdatedAt = now
	if err := e.Store.UpdateProject(ctx, p); err != nil {
		return domain.Task{}, notFound("project", p.ID, err)
	}
	e.emit(ctx, "task.move", p.ID, "task", t.ID, actorID, events.EventPayload{"from": from, "to": status})
	return t, nil
}
