package repo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"frameline/internal/db"
	"frameline/internal/domain"
	"frameline/internal/migrate"
	"frameline/internal/repo"
)

func newTestRepo(t *testing.T) (repo.Repo, context.Context) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	n := 0
	return repo.Repo{DB: conn, NewID: func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}}, ctx
}

func TestProjectRoundTrip(t *testing.T) {
	r, ctx := newTestRepo(t)
	in := domain.Project{
		Name:        "Doc",
		OwnerID:     "ana",
		ProjectType: domain.ProjectTypeFullLengthVideo,
		TeamMembers: []domain.TeamMember{{UserID: "bo", Role: "editor"}},
		MetadataConfig: domain.MetadataConfig{
			AllowedCodecs:        []string{"H.265"},
			AllowedResolutions:   []string{"3840x2160"},
			AllowedAudioChannels: []int{2, 6},
		},
		KanbanBoards: []domain.KanbanBoard{{ID: "b1", Title: "Default Board", Columns: []domain.TaskColumn{{ID: "TO_DO", Name: "To Do"}}}},
		Active:       true,
		CreatedAt:    10,
		UpdatedAt:    10,
	}
	p, err := r.InsertProject(ctx, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if p.ID != "id-1" {
		t.Fatalf("expected assigned id, got %q", p.ID)
	}
	got, err := r.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Doc" || !got.Active || got.TeamMembers[0].Role != "editor" || got.MetadataConfig.AllowedCodecs[0] != "H.265" {
		t.Fatalf("unexpected project %+v", got)
	}
	if got.KanbanBoards[0].Columns[0].Tasks == nil {
		t.Fatalf("expected empty task list, got nil")
	}

	got.Name = "Doc v2"
	got.UpdatedAt = 20
	if err := r.UpdateProject(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := r.GetProject(ctx, p.ID)
	if again.Name != "Doc v2" || again.CreatedAt != 10 || again.UpdatedAt != 20 {
		t.Fatalf("update not stored: %+v", again)
	}
}

func TestProjectNotFound(t *testing.T) {
	r, ctx := newTestRepo(t)
	if _, err := r.GetProject(ctx, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.UpdateProject(ctx, domain.Project{ID: "missing"}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestOwnerQueries(t *testing.T) {
	r, ctx := newTestRepo(t)
	for i := 0; i < 2; i++ {
		if _, err := r.InsertProject(ctx, domain.Project{Name: "p", OwnerID: "ana", ProjectType: domain.ProjectTypeShortFormContent, Active: i == 0, CreatedAt: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.InsertProject(ctx, domain.Project{Name: "q", OwnerID: "cy", ProjectType: domain.ProjectTypeShortFormContent}); err != nil {
		t.Fatal(err)
	}
	list, err := r.ListProjectsByOwner(ctx, "ana")
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %d, %v", len(list), err)
	}
	if list[0].CreatedAt > list[1].CreatedAt {
		t.Fatalf("expected insertion order")
	}
	if ok, err := r.ExistsByOwnerAndActive(ctx, "ana", true); err != nil || !ok {
		t.Fatalf("ana active = %v, %v", ok, err)
	}
	if ok, _ := r.ExistsByOwnerAndActive(ctx, "cy", true); ok {
		t.Fatalf("cy has no active project")
	}
	if ok, _ := r.ExistsByOwnerAndActive(ctx, "nobody", true); ok {
		t.Fatalf("unknown owner reported active")
	}
	empty, err := r.ListProjectsByOwner(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", empty, err)
	}
}

func TestScheduleInsertDuplicate(t *testing.T) {
	r, ctx := newTestRepo(t)
	s, err := r.InsertSchedule(ctx, domain.Schedule{ProjectID: "p1", CreatedAt: 1, UpdatedAt: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if s.InProgress == nil || s.Completed == nil || s.Overdue == nil {
		t.Fatalf("buckets should be empty lists: %+v", s)
	}
	if _, err := r.InsertSchedule(ctx, domain.Schedule{ProjectID: "p1", CreatedAt: 2, UpdatedAt: 2}); !errors.Is(err, repo.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	got, err := r.GetScheduleByProject(ctx, "p1")
	if err != nil || got.ID != s.ID {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := r.GetScheduleByProject(ctx, "p2"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveScheduleKeepsIdentity(t *testing.T) {
	r, ctx := newTestRepo(t)
	first, err := r.SaveSchedule(ctx, domain.Schedule{ProjectID: "p1", CreatedAt: 1, UpdatedAt: 1})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := r.SaveSchedule(ctx, domain.Schedule{
		ID:         "other",
		ProjectID:  "p1",
		InProgress: []domain.TaskItem{{ID: "t1", Title: "cut"}},
		CreatedAt:  99,
		UpdatedAt:  5,
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID || second.CreatedAt != 1 || second.UpdatedAt != 5 {
		t.Fatalf("identity not preserved: first=%+v second=%+v", first, second)
	}
	if len(second.InProgress) != 1 || second.InProgress[0].Title != "cut" {
		t.Fatalf("buckets not replaced: %+v", second)
	}
}

func TestNotesAndFiles(t *testing.T) {
	r, ctx := newTestRepo(t)
	for i := 0; i < 2; i++ {
		if _, err := r.InsertNote(ctx, domain.Note{ProjectID: "p1", Title: fmt.Sprintf("n%d", i), CreatedBy: "ana", CreatedAt: int64(i), UpdatedAt: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	notes, err := r.ListNotesByProject(ctx, "p1")
	if err != nil || len(notes) != 2 || notes[0].Title != "n0" {
		t.Fatalf("notes = %+v, %v", notes, err)
	}
	if other, _ := r.ListNotesByProject(ctx, "p2"); len(other) != 0 {
		t.Fatalf("notes leaked across projects")
	}

	f, err := r.InsertProjectFile(ctx, domain.ProjectFile{ProjectID: "p1", Filename: "a.mov", Size: 3, Codec: "H.264", AudioChannels: 4, HasWarnings: true, Warnings: []string{"Invalid audio channels: 4"}, UploadedBy: "ana", DateAdded: 7})
	if err != nil {
		t.Fatalf("insert file: %v", err)
	}
	files, err := r.ListProjectFiles(ctx, "p1")
	if err != nil || len(files) != 1 {
		t.Fatalf("files = %+v, %v", files, err)
	}
	if files[0].ID != f.ID || !files[0].HasWarnings || files[0].Warnings[0] != "Invalid audio channels: 4" {
		t.Fatalf("unexpected file %+v", files[0])
	}
}
