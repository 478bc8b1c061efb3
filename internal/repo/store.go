package repo

import (
	"context"
	"errors"

	"frameline/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Store is the persistence port used by the engine. Implementations assign
// an id on first insert when the entity has none and must reject a second
// schedule for the same project with ErrDuplicate.
type Store interface {
	InsertProject(ctx context.Context, p domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, id string) (domain.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	ExistsByOwnerAndActive(ctx context.Context, ownerID string, active bool) (bool, error)

	GetScheduleByProject(ctx context.Context, projectID string) (domain.Schedule, error)
	InsertSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error)
	// SaveSchedule upserts by project id. An existing row keeps its id and
	// created_at; the stored schedule is returned.
	SaveSchedule(ctx context.Context, s domain.Schedule) (domain.Schedule, error)

	InsertNote(ctx context.Context, n domain.Note) (domain.Note, error)
	ListNotesByProject(ctx context.Context, projectID string) ([]domain.Note, error)

	InsertProjectFile(ctx context.Context, f domain.ProjectFile) (domain.ProjectFile, error)
	ListProjectFiles(ctx context.Context, projectID string) ([]domain.ProjectFile, error)
}

// NormalizeSchedule replaces nil buckets with empty lists.
func NormalizeSchedule(s domain.Schedule) domain.Schedule {
	if s.InProgress == nil {
		s.InProgress = []domain.TaskItem{}
	}
	if s.Completed == nil {
		s.Completed = []domain.TaskItem{}
	}
	if s.Overdue == nil {
		s.Overdue = []domain.TaskItem{}
	}
	return s
}

// NormalizeProject replaces nil collections with empty ones.
func NormalizeProject(p domain.Project) domain.Project {
	if p.TeamMembers == nil {
		p.TeamMembers = []domain.TeamMember{}
	}
	if p.KanbanBoards == nil {
		p.KanbanBoards = []domain.KanbanBoard{}
	}
	for i := range p.KanbanBoards {
		for j := range p.KanbanBoards[i].Columns {
			if p.KanbanBoards[i].Columns[j].Tasks == nil {
				p.KanbanBoards[i].Columns[j].Tasks = []domain.Task{}
			}
		}
	}
	return p
}
