package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-service/internal/entity"
)

const MaxThemeLength = 200

// JobRepository is implemented by postgresql.JobRepository and sqlite.JobRepository.
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	Fail(ctx context.Context, id uuid.UUID, errText string) error
}

type StoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Story, error)
	ListNodes(ctx context.Context, storyID uuid.UUID) ([]entity.StoryNode, error)
}

// Dispatcher hands a committed job to the background workers.
type Dispatcher interface {
	Submit(ctx context.Context, jobID uuid.UUID) error
}

// StoryCache is optional; a nil cache disables caching.
type StoryCache interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.CompleteStory, bool, error)
	Set(ctx context.Context, story *entity.CompleteStory) error
}

type StoryService struct {
	jobs       JobRepository
	stories    StoryRepository
	dispatcher Dispatcher
	cache      StoryCache
	logger     *zap.Logger
}

func NewStoryService(jobs JobRepository, stories StoryRepository, dispatcher Dispatcher, cache StoryCache, logger *zap.Logger) *StoryService {
	return &StoryService{
		jobs:       jobs,
		stories:    stories,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger.Named("story_service"),
	}
}

// CreateJob records a pending generation job and schedules it. The job row
// is committed before the workers can see the id. If scheduling fails the
// job is returned already failed.
func (s *StoryService) CreateJob(ctx context.Context, theme, sessionID string) (*entity.Job, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, fmt.Errorf("%w: theme is required", entity.ErrInvalidInput)
	}
	if utf8.RuneCountInString(theme) > MaxThemeLength {
		return nil, fmt.Errorf("%w: theme must be at most %d characters", entity.ErrInvalidInput, MaxThemeLength)
	}

	job := &entity.Job{
		ID:        uuid.New(),
		SessionID: sessionID,
		Theme:     theme,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := s.dispatcher.Submit(ctx, job.ID); err != nil {
		msg := "Failed to schedule story generation: " + err.Error()
		s.logger.Error("job dispatch failed", zap.String("job_id", job.ID.String()), zap.Error(err))

		if ferr := s.jobs.Fail(context.WithoutCancel(ctx), job.ID, msg); ferr != nil {
			return nil, fmt.Errorf("fail undispatched job: %w", ferr)
		}
		now := time.Now().UTC()
		job.Status = entity.StatusFailed
		job.Error = &msg
		job.CompletedAt = &now
		return job, nil
	}

	s.logger.Info("job created", zap.String("job_id", job.ID.String()), zap.String("theme", theme))
	return job, nil
}

func (s *StoryService) GetJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// GetCompleteStory loads a story with its whole node tree.
func (s *StoryService) GetCompleteStory(ctx context.Context, id uuid.UUID) (*entity.CompleteStory, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("story cache read failed", zap.String("story_id", id.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	nodes, err := s.stories.ListNodes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	complete, err := AssembleStory(story, nodes)
	if err != nil {
		s.logger.Error("story failed integrity check", zap.String("story_id", id.String()), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, complete); err != nil {
			s.logger.Warn("story cache write failed", zap.String("story_id", id.String()), zap.Error(err))
		}
	}
	return complete, nil
}
