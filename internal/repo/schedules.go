package repo

import (
	"context"
	"fmt"

	"frameline/internal/domain"
)

func scanSchedule(row rowScanner) (domain.Schedule, error) {
	var (
		s                              domain.Schedule
		inProgress, completed, overdue string
	)
	if err := row.Scan(&s.ID, &s.ProjectID, &inProgress, &completed, &overdue, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Schedule{}, notFound(err)
	}
	for _, b := range []struct {
		raw string
		dst *[]domain.TaskItem
	}{{inProgress, &s.InProgress}, {completed, &s.Completed}, {overdue, &s.Overdue}} {
		if err := unmarshalJSON(b.raw, b.dst); err != nil {
			return domain.Schedule{}, fmt.Errorf("schedule %s buckets: %w", s.ID, err)
		}
	}
	return NormalizeSchedule(s), nil
}

func encodeBuckets(s domain.Schedule) (inProgress, completed, overdue string, err error) {
	if inProgress, err = marshalJSON(s.InProgress); err != nil {
		return
	}
	if completed, err = marshalJSON(s.Completed); err != nil {
		return
	}
	overdue, err = marshalJSON(s.Overdue)
	return
}

func (r Repo) GetScheduleByProject(ctx context.Context, projectID string) (domain.Schedule, error) {
	return scanSchedule(r.DB.QueryRowContext(ctx, `SELECT id,project_id,in_progress_json,completed_json,overdue_json,created_at,updated_at FROM schedules WHERE project_id=?`, projectID))
}

// InsertSchedule fails with ErrDuplicate when the project already has one.
func (r Repo) InsertSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	if s.ID == "" {
		s.ID = r.newID()
	}
	s = NormalizeSchedule(s)
	inProgress, completed, overdue, err := encodeBuckets(s)
	if err != nil {
		return domain.Schedule{}, err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO schedules(id,project_id,in_progress_json,completed_json,overdue_json,created_at,updated_at) VALUES (?,?,?,?,?,?,?)`,
		s.ID, s.ProjectID, inProgress, completed, overdue, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.Schedule{}, fmt.Errorf("schedule for project %s: %w", s.ProjectID, ErrDuplicate)
	}
	if err != nil {
		return domain.Schedule{}, err
	}
	return s, nil
}

func (r Repo) SaveSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	if s.ID == "" {
		s.ID = r.newID()
	}
	s = NormalizeSchedule(s)
	inProgress, completed, overdue, err := encodeBuckets(s)
	if err != nil {
		return domain.Schedule{}, err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO schedules(id,project_id,in_progress_json,completed_json,overdue_json,created_at,updated_at) VALUES (?,?,?,?,?,?,?)
ON CONFLICT(project_id) DO UPDATE SET in_progress_json=excluded.in_progress_json, completed_json=excluded.completed_json, overdue_json=excluded.overdue_json, updated_at=excluded.updated_at`,
		s.ID, s.ProjectID, inProgress, completed, overdue, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return domain.Schedule{}, err
	}
	return r.GetScheduleByProject(ctx, s.ProjectID)
}
