package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"adventure-service/internal/entity"
)

type JobRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewJobRepository(pool *pgxpool.Pool, logger *zap.Logger) *JobRepository {
	return &JobRepository{pool: pool, logger: logger.Named("job_repository")}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	const q = `
INSERT INTO jobs (id, session_id, theme, status)
VALUES ($1, $2, $3, 'pending')
RETURNING status, created_at;
`
	var status string
	if err := r.pool.QueryRow(ctx, q, job.ID, job.SessionID, job.Theme).Scan(&status, &job.CreatedAt); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	job.Status = entity.JobStatus(status)
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	const q = `
SELECT id, session_id, theme, status, story_id, error, created_at, completed_at
FROM jobs
WHERE id = $1;
`
	var (
		job    entity.Job
		status string
	)
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&job.ID,
		&job.SessionID,
		&job.Theme,
		&status,
		&job.StoryID, // NULL => nil
		&job.Error,   // NULL => nil
		&job.CreatedAt,
		&job.CompletedAt, // NULL => nil
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	job.Status = entity.JobStatus(status)

	return &job, nil
}

// MarkProcessing moves a pending job to processing. Calling it again on a
// processing job is a no-op.
func (r *JobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE jobs SET status='processing' WHERE id=$1 AND status IN ('pending', 'processing');`

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, r.pool, id)
	}
	return nil
}

// Complete stores the story with all of its nodes and marks the job
// completed, all in one transaction.
func (r *JobRepository) Complete(ctx context.Context, jobID uuid.UUID, story *entity.Story, nodes []entity.StoryNode) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertStory = `
INSERT INTO stories (id, title, session_id)
VALUES ($1, $2, $3)
RETURNING created_at;
`
		if err := tx.QueryRow(ctx, insertStory, story.ID, story.Title, story.SessionID).Scan(&story.CreatedAt); err != nil {
			return fmt.Errorf("insert story: %w", err)
		}

		const insertNode = `
INSERT INTO story_nodes (id, story_id, position, content, is_root, is_ending, is_winning_ending, options)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
		batch := &pgx.Batch{}
		for i, n := range nodes {
			opts, err := json.Marshal(n.Options)
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}
			batch.Queue(insertNode, n.ID, story.ID, i, n.Content, n.IsRoot, n.IsEnding, n.IsWinningEnding, opts)
		}
		br := tx.SendBatch(ctx, batch)
		for range nodes {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert node: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert nodes: %w", err)
		}

		const completeJob = `
UPDATE jobs
SET status='completed', story_id=$2, error=NULL, completed_at=now()
WHERE id=$1 AND status IN ('pending', 'processing');
`
		tag, err := tx.Exec(ctx, completeJob, jobID, story.ID)
		if err != nil {
			return fmt.Errorf("complete job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.transitionError(ctx, tx, jobID)
		}
		return nil
	})
}

func (r *JobRepository) Fail(ctx context.Context, id uuid.UUID, errText string) error {
	const q = `
UPDATE jobs
SET status='failed', error=$2, story_id=NULL, completed_at=now()
WHERE id=$1 AND status IN ('pending', 'processing');
`
	tag, err := r.pool.Exec(ctx, q, id, errText)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, r.pool, id)
	}
	return nil
}

// FailUnfinished fails every job still pending or processing. It runs once
// at startup, before any worker is started.
func (r *JobRepository) FailUnfinished(ctx context.Context, errText string) (int64, error) {
	const q = `
UPDATE jobs
SET status='failed', error=$1, completed_at=now()
WHERE status IN ('pending', 'processing');
`
	tag, err := r.pool.Exec(ctx, q, errText)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *JobRepository) transitionError(ctx context.Context, q querier, id uuid.UUID) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id=$1);`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return entity.ErrNotFound
	}
	return entity.ErrJobFinalized
}
