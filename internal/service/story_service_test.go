package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-service/internal/entity"
	"adventure-service/internal/service"
)

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*entity.Job
	createErr error
	failed    map[uuid.UUID]string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*entity.Job{}, failed: map[uuid.UUID]string{}}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	job.Status = entity.StatusPending
	job.CreatedAt = time.Now().UTC()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) Fail(ctx context.Context, id uuid.UUID, errText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return entity.ErrNotFound
	}
	if j.Status.IsTerminal() {
		return entity.ErrJobFinalized
	}
	j.Status = entity.StatusFailed
	j.Error = &errText
	r.failed[id] = errText
	return nil
}

type fakeDispatcher struct {
	submitted []uuid.UUID
	err       error
}

func (d *fakeDispatcher) Submit(ctx context.Context, jobID uuid.UUID) error {
	d.submitted = append(d.submitted, jobID)
	return d.err
}

type fakeStoryRepo struct {
	stories   map[uuid.UUID]*entity.Story
	nodes     map[uuid.UUID][]entity.StoryNode
	storyHits int
}

func (r *fakeStoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	r.storyHits++
	s, ok := r.stories[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return s, nil
}

func (r *fakeStoryRepo) ListNodes(ctx context.Context, storyID uuid.UUID) ([]entity.StoryNode, error) {
	return r.nodes[storyID], nil
}

type memCache struct {
	items  map[uuid.UUID]*entity.CompleteStory
	getErr error
}

func (c *memCache) Get(ctx context.Context, id uuid.UUID) (*entity.CompleteStory, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.items[id]
	return s, ok, nil
}

func (c *memCache) Set(ctx context.Context, story *entity.CompleteStory) error {
	c.items[story.ID] = story
	return nil
}

func newStory() (*entity.Story, []entity.StoryNode) {
	leaf := entity.StoryNode{ID: uuid.New(), Content: "The end.", IsEnding: true, Options: []entity.Option{}}
	root := entity.StoryNode{ID: uuid.New(), Content: "Begin.", IsRoot: true, Options: []entity.Option{{Text: "Go", NodeID: leaf.ID}}}
	story := &entity.Story{ID: uuid.New(), Title: "Short", SessionID: "sess", CreatedAt: time.Now().UTC()}
	return story, []entity.StoryNode{root, leaf}
}

func TestStoryService_CreateJob_PendingAndDispatched(t *testing.T) {
	repo := newFakeJobRepo()
	disp := &fakeDispatcher{}
	svc := service.NewStoryService(repo, &fakeStoryRepo{}, disp, nil, zap.NewNop())

	job, err := svc.CreateJob(context.Background(), "  fantasy  ", "sess-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if job.Status != entity.StatusPending {
		t.Fatalf("expected pending, got %s", job.Status)
	}
	if job.Theme != "fantasy" {
		t.Fatalf("expected trimmed theme, got %q", job.Theme)
	}
	if job.StoryID != nil || job.Error != nil || job.CompletedAt != nil {
		t.Fatalf("fresh job must have no story, error or completion time: %+v", job)
	}
	if len(disp.submitted) != 1 || disp.submitted[0] != job.ID {
		t.Fatalf("expected job %s to be dispatched, got %v", job.ID, disp.submitted)
	}

	stored, err := repo.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if stored.SessionID != "sess-1" {
		t.Fatalf("expected session sess-1, got %q", stored.SessionID)
	}
}

func TestStoryService_CreateJob_InvalidTheme(t *testing.T) {
	for _, theme := range []string{"", "   ", strings.Repeat("x", service.MaxThemeLength+1)} {
		repo := newFakeJobRepo()
		disp := &fakeDispatcher{}
		svc := service.NewStoryService(repo, &fakeStoryRepo{}, disp, nil, zap.NewNop())

		_, err := svc.CreateJob(context.Background(), theme, "sess")
		if !errors.Is(err, entity.ErrInvalidInput) {
			t.Fatalf("theme %q: expected ErrInvalidInput, got %v", theme, err)
		}
		if len(repo.jobs) != 0 || len(disp.submitted) != 0 {
			t.Fatalf("theme %q: nothing should be stored or dispatched", theme)
		}
	}
}

func TestStoryService_CreateJob_RepoError(t *testing.T) {
	repo := newFakeJobRepo()
	repo.createErr = errors.New("db down")
	disp := &fakeDispatcher{}
	svc := service.NewStoryService(repo, &fakeStoryRepo{}, disp, nil, zap.NewNop())

	if _, err := svc.CreateJob(context.Background(), "space", "sess"); err == nil {
		t.Fatal("expected error")
	}
	if len(disp.submitted) != 0 {
		t.Fatal("job must not be dispatched when it was not stored")
	}
}

func TestStoryService_CreateJob_DispatchFailureFailsJob(t *testing.T) {
	repo := newFakeJobRepo()
	disp := &fakeDispatcher{err: errors.New("queue full")}
	svc := service.NewStoryService(repo, &fakeStoryRepo{}, disp, nil, zap.NewNop())

	job, err := svc.CreateJob(context.Background(), "space", "sess")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if job.Status != entity.StatusFailed || job.Error == nil {
		t.Fatalf("expected failed job with error, got %+v", job)
	}

	stored, _ := repo.GetByID(context.Background(), job.ID)
	if stored.Status != entity.StatusFailed {
		t.Fatalf("expected stored job failed, got %s", stored.Status)
	}
	if !strings.Contains(*stored.Error, "queue full") {
		t.Fatalf("unexpected error text %q", *stored.Error)
	}
}

func TestStoryService_GetJob_NotFound(t *testing.T) {
	svc := service.NewStoryService(newFakeJobRepo(), &fakeStoryRepo{}, &fakeDispatcher{}, nil, zap.NewNop())

	_, err := svc.GetJob(context.Background(), uuid.New())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoryService_GetCompleteStory(t *testing.T) {
	story, nodes := newStory()
	stories := &fakeStoryRepo{
		stories: map[uuid.UUID]*entity.Story{story.ID: story},
		nodes:   map[uuid.UUID][]entity.StoryNode{story.ID: nodes},
	}
	cache := &memCache{items: map[uuid.UUID]*entity.CompleteStory{}}
	svc := service.NewStoryService(newFakeJobRepo(), stories, &fakeDispatcher{}, cache, zap.NewNop())

	got, err := svc.GetCompleteStory(context.Background(), story.ID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.RootNode.ID != nodes[0].ID {
		t.Fatalf("expected root %s, got %s", nodes[0].ID, got.RootNode.ID)
	}
	if len(got.AllNodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(got.AllNodes))
	}

	// second read is served from the cache
	if _, err := svc.GetCompleteStory(context.Background(), story.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if stories.storyHits != 1 {
		t.Fatalf("expected one repository read, got %d", stories.storyHits)
	}
}

func TestStoryService_GetCompleteStory_CacheErrorFallsBack(t *testing.T) {
	story, nodes := newStory()
	stories := &fakeStoryRepo{
		stories: map[uuid.UUID]*entity.Story{story.ID: story},
		nodes:   map[uuid.UUID][]entity.StoryNode{story.ID: nodes},
	}
	cache := &memCache{items: map[uuid.UUID]*entity.CompleteStory{}, getErr: errors.New("redis down")}
	svc := service.NewStoryService(newFakeJobRepo(), stories, &fakeDispatcher{}, cache, zap.NewNop())

	if _, err := svc.GetCompleteStory(context.Background(), story.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestStoryService_GetCompleteStory_Unknown(t *testing.T) {
	svc := service.NewStoryService(newFakeJobRepo(), &fakeStoryRepo{}, &fakeDispatcher{}, nil, zap.NewNop())

	_, err := svc.GetCompleteStory(context.Background(), uuid.New())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoryService_GetCompleteStory_NoRoot(t *testing.T) {
	story, nodes := newStory()
	nodes[0].IsRoot = false
	stories := &fakeStoryRepo{
		stories: map[uuid.UUID]*entity.Story{story.ID: story},
		nodes:   map[uuid.UUID][]entity.StoryNode{story.ID: nodes},
	}
	svc := service.NewStoryService(newFakeJobRepo(), stories, &fakeDispatcher{}, nil, zap.NewNop())

	_, err := svc.GetCompleteStory(context.Background(), story.ID)
	if !errors.Is(err, entity.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}
