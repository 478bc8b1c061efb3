package engine

import (
	"context"
	"errors"
	"fmt"

	"frameline/internal/board"
	"frameline/internal/domain"
	"frameline/internal/events"
	"frameline/internal/repo"
)

// GetOrCreateSchedule returns the stored schedule of a project, creating an
// empty one if none exists. Concurrent callers for the same project all get
// the same schedule.
func (e Engine) GetOrCreateSchedule(ctx context.Context, projectID string) (domain.Schedule, error) {
	if projectID == "" {
		return domain.Schedule{}, errors.New("project id is required")
	}
	s, err := e.Store.GetScheduleByProject(ctx, projectID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return domain.Schedule{}, err
	}
	created, err := e.Store.InsertSchedule(ctx, newSchedule(projectID, e.nowMillis()))
	if errors.Is(err, repo.ErrDuplicate) {
		e.Metrics.ScheduleConflict()
		if e.Log != nil {
			e.Log.WithField("project_id", projectID).Debug("schedule created concurrently, re-reading")
		}
		return e.Store.GetScheduleByProject(ctx, projectID)
	}
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("insert schedule: %w", err)
	}
	e.Metrics.ScheduleCreated()
	e.emit(ctx, "schedule.create", projectID, "schedule", created.ID, "", nil)
	return created, nil
}

func newSchedule(projectID string, now int64) domain.Schedule {
	return domain.Schedule{
		ProjectID:  projectID,
		InProgress: []domain.TaskItem{},
		Completed:  []domain.TaskItem{},
		Overdue:    []domain.TaskItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UpdateSchedule replaces the buckets of a project's schedule. A missing
// schedule is created with these buckets as its first version. The stored id
// and createdAt never change.
func (e Engine) UpdateSchedule(ctx context.Context, projectID string, buckets domain.ScheduleBuckets, actorID string) (domain.Schedule, error) {
	if projectID == "" {
		return domain.Schedule{}, errors.New("project id is required")
	}
	now := e.nowMillis()
	s, err := e.Store.GetScheduleByProject(ctx, projectID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		s = newSchedule(projectID, now)
	case err != nil:
		return domain.Schedule{}, err
	}
	s.InProgress = buckets.InProgress
	s.Completed = buckets.Completed
	s.Overdue = buckets.Overdue
	if now > s.UpdatedAt {
		s.UpdatedAt = now
	}
	saved, err := e.Store.SaveSchedule(ctx, repo.NormalizeSchedule(s))
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("save schedule: %w", err)
	}
	e.Metrics.ScheduleUpdated()
	e.emit(ctx, "schedule.update", projectID, "schedule", saved.ID, actorID, events.EventPayload{
		"in_progress": len(saved.InProgress),
		"completed":   len(saved.Completed),
		"overdue":     len(saved.Overdue),
	})
	return saved, nil
}

// RebuildSchedule derives the buckets from the project board and stores them.
func (e Engine) RebuildSchedule(ctx context.Context, projectID, actorID string) (domain.Schedule, error) {
	p, err := e.GetProject(ctx, projectID)
	if err != nil {
		return domain.Schedule{}, err
	}
	b, err := primaryBoard(p)
	if err != nil {
		return domain.Schedule{}, err
	}
	return e.UpdateSchedule(ctx, p.ID, board.DeriveBuckets(b, e.nowMillis()), actorID)
}
