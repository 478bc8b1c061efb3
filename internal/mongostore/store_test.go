package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"

	"frameline/internal/config"
	"frameline/internal/domain"
	"frameline/internal/repo"
)

func TestTranslate(t *testing.T) {
	if translate(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	if !errors.Is(translate(mongo.ErrNoDocuments), repo.ErrNotFound) {
		t.Fatalf("no documents should map to ErrNotFound")
	}
	other := errors.New("boom")
	if !errors.Is(translate(other), other) {
		t.Fatalf("unrelated errors pass through")
	}
}

func TestExecWithoutBreakerTranslates(t *testing.T) {
	s := &Store{}
	_, err := s.exec(func() (interface{}, error) { return nil, mongo.ErrNoDocuments })
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a breaker, got %v", err)
	}
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	_, err = s.exec(func() (interface{}, error) { return nil, dup })
	if !errors.Is(err, repo.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate without a breaker, got %v", err)
	}
	v, err := s.exec(func() (interface{}, error) { return 7, nil })
	if err != nil || v.(int) != 7 {
		t.Fatalf("exec = %v, %v", v, err)
	}
}

func TestBreakerIgnoresDomainMisses(t *testing.T) {
	cb := NewBreaker(config.Breaker{MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2}, nil)
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, repo.ErrNotFound })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("not-found results must not trip the breaker")
	}
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("connection refused") })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker after consecutive failures, got %s", cb.State())
	}
	if _, err := cb.Execute(func() (interface{}, error) { return nil, nil }); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
}

// openTestStore connects to FRAMELINE_TEST_MONGO_URI using a throwaway database.
func openTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	uri := os.Getenv("FRAMELINE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FRAMELINE_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	cfg := config.Default().Storage
	cfg.Driver = config.DriverMongo
	cfg.Mongo.URI = uri
	cfg.Mongo.Database = fmt.Sprintf("frameline_test_%d", time.Now().UnixNano())
	s, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open mongo: %v", err)
	}
	t.Cleanup(func() {
		_ = s.DB.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s, ctx
}

func TestMongoProjects(t *testing.T) {
	s, ctx := openTestStore(t)
	p, err := s.InsertProject(ctx, domain.Project{Name: "Doc", OwnerID: "ana", ProjectType: domain.ProjectTypeFullLengthVideo, Active: true, CreatedAt: 1, UpdatedAt: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.GetProject(ctx, p.ID)
	if err != nil || got.Name != "Doc" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if ok, err := s.ExistsByOwnerAndActive(ctx, "ana", true); err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	if ok, _ := s.ExistsByOwnerAndActive(ctx, "bo", true); ok {
		t.Fatalf("bo has no projects")
	}
	if _, err := s.GetProject(ctx, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateProject(ctx, domain.Project{ID: "missing"}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestMongoScheduleUniqueness(t *testing.T) {
	s, ctx := openTestStore(t)
	if _, err := s.InsertSchedule(ctx, domain.Schedule{ProjectID: "p1", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.InsertSchedule(ctx, domain.Schedule{ProjectID: "p1", CreatedAt: 2, UpdatedAt: 2}); !errors.Is(err, repo.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sc, err := s.SaveSchedule(ctx, domain.Schedule{ProjectID: "p2", CreatedAt: 5, UpdatedAt: int64(5 + i)})
			if err != nil {
				t.Errorf("save: %v", err)
				return
			}
			ids[i] = sc.ID
		}(i)
	}
	wg.Wait()
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("concurrent upserts produced different ids: %v", ids)
		}
	}
	n, err := s.DB.Collection(schedulesCollection).CountDocuments(ctx, map[string]any{"projectId": "p2"})
	if err != nil || n != 1 {
		t.Fatalf("schedules for p2 = %d, %v", n, err)
	}
}
