package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-service/internal/entity"
	"adventure-service/internal/generator"
)

type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, jobID uuid.UUID, story *entity.Story, nodes []entity.StoryNode) error
	Fail(ctx context.Context, id uuid.UUID, errText string) error
}

type StoryGenerator interface {
	Generate(ctx context.Context, theme string) (*generator.Draft, error)
}

type Processor struct {
	store  JobStore
	gen    StoryGenerator
	logger *zap.Logger
}

func NewProcessor(store JobStore, gen StoryGenerator, logger *zap.Logger) *Processor {
	return &Processor{store: store, gen: gen, logger: logger.Named("processor")}
}

// Process runs one job to a terminal state. Every error and panic after the
// job was loaded ends with the job marked failed.
func (p *Processor) Process(ctx context.Context, jobID uuid.UUID) (err error) {
	start := time.Now()
	log := p.logger.With(zap.String("job_id", jobID.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing job", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("panic: %v", r)
			p.fail(ctx, log, jobID, "Failed to generate story: internal error", start)
		}
	}()

	job, err := p.store.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			log.Warn("job not found, skipping")
			return err
		}
		log.Error("load job", zap.Error(err))
		p.fail(ctx, log, jobID, "Failed to load job: "+err.Error(), start)
		return err
	}
	if job.Status.IsTerminal() {
		log.Info("job already finalized, skipping", zap.String("status", string(job.Status)))
		return nil
	}

	if err := p.store.MarkProcessing(ctx, jobID); err != nil {
		if errors.Is(err, entity.ErrJobFinalized) {
			return nil
		}
		log.Error("mark processing", zap.Error(err))
		p.fail(ctx, log, jobID, "Failed to start job: "+err.Error(), start)
		return err
	}
	log.Info("job processing", zap.String("theme", job.Theme))

	draft, err := p.gen.Generate(ctx, job.Theme)
	if err != nil {
		p.fail(ctx, log, jobID, "Failed to generate story: "+err.Error(), start)
		return err
	}

	story := &entity.Story{
		ID:        uuid.New(),
		Title:     draft.Title,
		SessionID: job.SessionID,
	}
	if err := p.store.Complete(ctx, jobID, story, draft.Tree.Nodes); err != nil {
		if errors.Is(err, entity.ErrJobFinalized) {
			log.Warn("job finalized while generating, story discarded")
			return err
		}
		p.fail(ctx, log, jobID, "Failed to save story: "+err.Error(), start)
		return err
	}

	storyNodes.Observe(float64(len(draft.Tree.Nodes)))
	if draft.Tree.Truncated {
		storiesTruncated.Inc()
	}
	jobsTotal.WithLabelValues(string(entity.StatusCompleted)).Inc()
	jobDuration.WithLabelValues(string(entity.StatusCompleted)).Observe(time.Since(start).Seconds())

	log.Info("job completed",
		zap.String("story_id", story.ID.String()),
		zap.String("title", story.Title),
		zap.Int("nodes", len(draft.Tree.Nodes)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func (p *Processor) fail(ctx context.Context, log *zap.Logger, jobID uuid.UUID, msg string, start time.Time) {
	jobsTotal.WithLabelValues(string(entity.StatusFailed)).Inc()
	jobDuration.WithLabelValues(string(entity.StatusFailed)).Observe(time.Since(start).Seconds())

	if err := p.store.Fail(ctx, jobID, msg); err != nil {
		log.Error("mark job failed", zap.Error(err), zap.String("reason", msg))
		return
	}
	log.Warn("job failed",
		zap.String("error", msg),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}
