package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adventure-service/internal/entity"
)

var unfinished = []string{string(entity.StatusPending), string(entity.StatusProcessing)}

// Open connects to a SQLite file (or ":memory:") with foreign keys enabled.
// SQLite allows a single writer, so the pool is limited to one connection.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&storyModel{}, &nodeModel{}, &jobModel{})
}

type JobRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewJobRepository(db *gorm.DB, logger *zap.Logger) *JobRepository {
	return &JobRepository{db: db, logger: logger.Named("job_repository")}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	m := &jobModel{
		ID:        job.ID.String(),
		SessionID: job.SessionID,
		Theme:     job.Theme,
		Status:    string(entity.StatusPending),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	job.Status = entity.StatusPending
	job.CreatedAt = m.CreatedAt
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var m jobModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return toJob(&m)
}

func (r *JobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&jobModel{}).
		Where("id = ? AND status IN ?", id.String(), unfinished).
		Update("status", string(entity.StatusProcessing))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return transitionError(r.db.WithContext(ctx), id)
	}
	return nil
}

// Complete stores the story and its nodes and marks the job completed in a
// single transaction.
func (r *JobRepository) Complete(ctx context.Context, jobID uuid.UUID, story *entity.Story, nodes []entity.StoryNode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sm := &storyModel{
			ID:        story.ID.String(),
			Title:     story.Title,
			SessionID: story.SessionID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(sm).Error; err != nil {
			return fmt.Errorf("insert story: %w", err)
		}

		if len(nodes) > 0 {
			models := make([]nodeModel, 0, len(nodes))
			for i, n := range nodes {
				opts, err := json.Marshal(n.Options)
				if err != nil {
					return fmt.Errorf("encode options: %w", err)
				}
				models = append(models, nodeModel{
					ID:              n.ID.String(),
					StoryID:         sm.ID,
					Position:        i,
					Content:         n.Content,
					IsRoot:          n.IsRoot,
					IsEnding:        n.IsEnding,
					IsWinningEnding: n.IsWinningEnding,
					Options:         datatypes.JSON(opts),
				})
			}
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("insert nodes: %w", err)
			}
		}

		now := time.Now().UTC()
		res := tx.Model(&jobModel{}).
			Where("id = ? AND status IN ?", jobID.String(), unfinished).
			Updates(map[string]any{
				"status":       string(entity.StatusCompleted),
				"story_id":     sm.ID,
				"error":        nil,
				"completed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("complete job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return transitionError(tx, jobID)
		}

		story.CreatedAt = sm.CreatedAt
		return nil
	})
}

func (r *JobRepository) Fail(ctx context.Context, id uuid.UUID, errText string) error {
	res := r.db.WithContext(ctx).Model(&jobModel{}).
		Where("id = ? AND status IN ?", id.String(), unfinished).
		Updates(map[string]any{
			"status":       string(entity.StatusFailed),
			"error":        errText,
			"story_id":     nil,
			"completed_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return transitionError(r.db.WithContext(ctx), id)
	}
	return nil
}

func (r *JobRepository) FailUnfinished(ctx context.Context, errText string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&jobModel{}).
		Where("status IN ?", unfinished).
		Updates(map[string]any{
			"status":       string(entity.StatusFailed),
			"error":        errText,
			"completed_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func transitionError(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&jobModel{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return entity.ErrNotFound
	}
	return entity.ErrJobFinalized
}

type StoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	var m storyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return toStory(&m)
}

func (r *StoryRepository) ListNodes(ctx context.Context, storyID uuid.UUID) ([]entity.StoryNode, error) {
	var models []nodeModel
	if err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID.String()).
		Order("position").
		Find(&models).Error; err != nil {
		return nil, err
	}

	nodes := make([]entity.StoryNode, 0, len(models))
	for i := range models {
		n, err := toNode(&models[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
