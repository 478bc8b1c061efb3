// Package mongostore is the MongoDB implementation of repo.Store. Every call
// goes through a circuit breaker so an unreachable server fails fast.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frameline/internal/config"
	"frameline/internal/domain"
	"frameline/internal/repo"
)

const (
	projectsCollection  = "projects"
	schedulesCollection = "schedules"
	notesCollection     = "notes"
	filesCollection     = "project_files"
)

type Store struct {
	Client  *mongo.Client
	DB      *mongo.Database
	Breaker *gobreaker.CircuitBreaker
	Log     *logrus.Logger
}

var _ repo.Store = (*Store)(nil)

// NewBreaker builds the storage circuit breaker. Not-found and duplicate
// results count as successes.
func NewBreaker(cfg config.Breaker, log *logrus.Logger) *gobreaker.CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 3
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "frameline-mongo",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrDuplicate)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state change")
			}
		},
	})
}

// Open connects to MongoDB, pings it and ensures indexes.
func Open(ctx context.Context, cfg config.Storage, log *logrus.Logger) (*Store, error) {
	timeout := cfg.Mongo.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.Mongo.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{
		Client:  client,
		DB:      client.Database(cfg.Mongo.Database),
		Breaker: NewBreaker(cfg.Breaker, log),
		Log:     log,
	}
	if err := s.EnsureIndexes(cctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if log != nil {
		log.WithFields(logrus.Fields{"database": cfg.Mongo.Database}).Info("connected to mongodb")
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique schedule index and the lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		projectsCollection: {{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "active", Value: 1}}}},
		schedulesCollection: {{
			Keys:    bson.D{{Key: "projectId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		notesCollection: {{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		filesCollection: {{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "dateAdded", Value: 1}}}},
	}
	for coll, models := range specs {
		if _, err := s.DB.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) exec(fn func() (interface{}, error)) (interface{}, error) {
	if s.Breaker == nil {
		v, err := fn()
		return v, translate(err)
	}
	return s.Breaker.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, translate(err)
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repo.ErrDuplicate, err)
	}
	return err
}

func (s *Store) InsertProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	p = repo.NormalizeProject(p)
	_, err := s.exec(func() (interface{}, error) {
		return s.DB.Collection(projectsCollection).InsertOne(ctx, p)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, p domain.Project) error {
	p = repo.NormalizeProject(p)
	res, err := s.exec(func() (interface{}, error) {
		return s.DB.Collection(projectsCollection).UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
			"name":           p.Name,
			"description":    p.Description,
			"projectType":    p.ProjectType,
			"teamMembers":    p.TeamMembers,
			"metadataConfig": p.MetadataConfig,
			"kanbanBoards":   p.KanbanBoards,
			"active":         p.Active,
			"updatedAt":      p.UpdatedAt,
		}})
	})
	if err != nil {
		return err
	}
	if res.(*mongo.UpdateResult).MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var p domain.Project
	_, err := s.exec(func() (interface{}, error) {
		return nil, s.DB.Collection(projectsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return repo.NormalizeProject(p), nil
}

func (s *Store) ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	res := []domain.Project{}
	_, err := s.exec(func() (interface{}, error) {
		cur, err := s.DB.Collection(projectsCollection).Find(ctx, bson.M{"ownerId": ownerID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
		if err != nil {
			return nil, err
		}
		return nil, cur.All(ctx, &res)
	})
	if err != nil {
		return nil, err
	}
	for i := range res {
		res[i] = repo.NormalizeProject(res[i])
	}
	return res, nil
}

func (s *Store) ExistsByOwnerAndActive(ctx context.Context, ownerID string, active bool) (bool, error) {
	_, err := s.exec(func() (interface{}, error) {
		return nil, s.DB.Collection(projectsCollection).FindOne(ctx, bson.M{"ownerId": ownerID, "active": active},
			options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	})
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) GetScheduleByProject(ctx context.Context, projectID string) (domain.Schedule, error) {
	var sc domain.Schedule
	_, err := s.exec(func() (interface{}, error) {
		return nil, s.DB.Collection(schedulesCollection).FindOne(ctx, bson.M{"projectId": projectID}).Decode(&sc)
	})
	if err != nil {
		return domain.Schedule{}, err
	}
	return repo.NormalizeSchedule(sc), nil
}

func (s *Store) InsertSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error) {
	if sc.ID == "" {
		sc.ID = newID()
	}
	sc = repo.NormalizeSchedule(sc)
	_, err := s.exec(func() (interface{}, error) {
		return s.DB.Collection(schedulesCollection).InsertOne(ctx, sc)
	})
	if err != nil {
		return domain.Schedule{}, err
	}
	return sc, nil
}

// SaveSchedule upserts on projectId. Two concurrent upserts of a missing
// schedule can race on the unique index; the loser retries as an update.
func (s *Store) SaveSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error) {
	if sc.ID == "" {
		sc.ID = newID()
	}
	sc = repo.NormalizeSchedule(sc)
	update := bson.M{
		"$set": bson.M{
			"inProgress": sc.InProgress,
			"completed":  sc.Completed,
			"overdue":    sc.Overdue,
			"updatedAt":  sc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": sc.ID, "createdAt": sc.CreatedAt},
	}
	upsert := func() error {
		_, err := s.exec(func() (interface{}, error) {
			return s.DB.Collection(schedulesCollection).UpdateOne(ctx, bson.M{"projectId": sc.ProjectID}, update, options.Update().SetUpsert(true))
		})
		return err
	}
	err := upsert()
	if errors.Is(err, repo.ErrDuplicate) {
		err = upsert()
	}
	if err != nil {
		return domain.Schedule{}, err
	}
	return s.GetScheduleByProject(ctx, sc.ProjectID)
}

func (s *Store) InsertNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	if n.ID == "" {
		n.ID = newID()
	}
	_, err := s.exec(func() (interface{}, error) {
		return s.DB.Collection(notesCollection).InsertOne(ctx, n)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (s *Store) ListNotesByProject(ctx context.Context, projectID string) ([]domain.Note, error) {
	res := []domain.Note{}
	_, err := s.exec(func() (interface{}, error) {
		cur, err := s.DB.Collection(notesCollection).Find(ctx, bson.M{"projectId": projectID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
		if err != nil {
			return nil, err
		}
		return nil, cur.All(ctx, &res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) InsertProjectFile(ctx context.Context, f domain.ProjectFile) (domain.ProjectFile, error) {
	if f.ID == "" {
		f.ID = newID()
	}
	if f.Warnings == nil {
		f.Warnings = []string{}
	}
	_, err := s.exec(func() (interface{}, error) {
		return s.DB.Collection(filesCollection).InsertOne(ctx, f)
	})
	if err != nil {
		return domain.ProjectFile{}, err
	}
	return f, nil
}

func (s *Store) ListProjectFiles(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	res := []domain.ProjectFile{}
	_, err := s.exec(func() (interface{}, error) {
		cur, err := s.DB.Collection(filesCollection).Find(ctx, bson.M{"projectId": projectID},
			options.Find().SetSort(bson.D{{Key: "dateAdded", Value: 1}}))
		if err != nil {
			return nil, err
		}
		return nil, cur.All(ctx, &res)
	})
	if err != nil {
		return nil, err
	}
	for i := range res {
		if res[i].Warnings == nil {
			res[i].Warnings = []string{}
		}
	}
	return res, nil
}
