package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"frameline/internal/board"
	"frameline/internal/config"
	"frameline/internal/domain"
	"frameline/internal/events"
	"frameline/internal/extract"
	"frameline/internal/metrics"
	"frameline/internal/policy"
	"frameline/internal/repo"
)

type Engine struct {
	Store     repo.Store
	Events    events.Writer
	Metrics   *metrics.Metrics
	Extractor extract.Extractor
	Log       *logrus.Logger
	Now       func() time.Time
	NewID     func() string
}

// New wires an engine over store. The extractor comes from cfg; a nil cfg
// uses the defaults.
func New(store repo.Store, cfg *config.Config, log *logrus.Logger) Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return Engine{
		Store:  store,
		Events: events.Writer{Log: log},
		Extractor: extract.Static{
			Codec:         cfg.Extractor.Codec,
			AudioChannels: cfg.Extractor.AudioChannels,
			Resolution:    cfg.Extractor.Resolution,
		},
		Log:   log,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) nowMillis() int64 {
	return e.now().UnixMilli()
}

func (e Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e Engine) emit(ctx context.Context, evtType, projectID, entityKind, entityID, actorID string, payload events.EventPayload) {
	ev := e.Events
	if ev.Now == nil {
		ev.Now = e.now
	}
	if err := ev.Append(ctx, evtType, projectID, entityKind, entityID, actorID, payload); err != nil && e.Log != nil {
		e.Log.WithError(err).WithField("event", evtType).Warn("drop activity event")
	}
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, repo.ErrNotFound)
	}
	return err
}

// ProjectRequest carries the user supplied fields of a new project.
type ProjectRequest struct {
	Name        string
	Description string
	ProjectType domain.ProjectType
	TeamMembers []domain.TeamMember
}

// CreateProject builds a project owned by ownerID with the policy for its
// type and one default board, then stores it.
func (e Engine) CreateProject(ctx context.Context, req ProjectRequest, ownerID string) (domain.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Project{}, errors.New("name is required")
	}
	if ownerID == "" {
		return domain.Project{}, errors.New("owner is required")
	}
	if req.ProjectType == "" {
		return domain.Project{}, errors.New("projectType is required")
	}
	if !req.ProjectType.Valid() {
		return domain.Project{}, fmt.Errorf("invalid projectType %q", req.ProjectType)
	}
	members := make([]domain.TeamMember, 0, len(req.TeamMembers))
	for _, m := range req.TeamMembers {
		if strings.TrimSpace(m.UserID) == "" {
			return domain.Project{}, errors.New("team member userId is required")
		}
		members = append(members, m)
	}
	now := e.nowMillis()
	p := domain.Project{
		Name:           req.Name,
		Description:    req.Description,
		OwnerID:        ownerID,
		ProjectType:    req.ProjectType,
		TeamMembers:    members,
		MetadataConfig: policy.Resolve(req.ProjectType),
		KanbanBoards:   []domain.KanbanBoard{board.NewDefault(e.newID(), now)},
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	stored, err := e.Store.InsertProject(ctx, p)
	if err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	e.Metrics.ProjectCreated(string(stored.ProjectType))
	e.emit(ctx, "project.create", stored.ID, "project", stored.ID, ownerID, events.EventPayload{
		"name":         stored.Name,
		"project_type": stored.ProjectType,
	})
	return stored, nil
}

func (e Engine) GetUserProjects(ctx context.Context, ownerID string) ([]domain.Project, error) {
	if ownerID == "" {
		return nil, errors.New("owner is required")
	}
	return e.Store.ListProjectsByOwner(ctx, ownerID)
}

// HasActiveProjects reports whether ownerID owns at least one active project.
func (e Engine) HasActiveProjects(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, errors.New("owner is required")
	}
	return e.Store.ExistsByOwnerAndActive(ctx, ownerID, true)
}

func (e Engine) GetProject(ctx context.Context, projectID string) (domain.Project, error) {
	if projectID == "" {
		return domain.Project{}, errors.New("project id is required")
	}
	p, err := e.Store.GetProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, notFound("project", projectID, err)
	}
	return p, nil
}
