package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"adventure-service/internal/entity"
)

type jobModel struct {
	ID          string `gorm:"primaryKey"`
	SessionID   string `gorm:"not null"`
	Theme       string `gorm:"not null"`
	Status      string `gorm:"not null;index"`
	StoryID     *string
	Story       *storyModel `gorm:"foreignKey:StoryID;references:ID;constraint:OnDelete:SET NULL"`
	Error       *string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (jobModel) TableName() string { return "jobs" }

type storyModel struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	SessionID string `gorm:"not null;index"`
	CreatedAt time.Time
}

func (storyModel) TableName() string { return "stories" }

type nodeModel struct {
	ID              string `gorm:"primaryKey"`
	StoryID         string `gorm:"not null;index:idx_story_nodes_story_position,priority:1"`
	Position        int    `gorm:"not null;index:idx_story_nodes_story_position,priority:2"`
	Content         string
	IsRoot          bool
	IsEnding        bool
	IsWinningEnding bool
	Options         datatypes.JSON `gorm:"not null"`
	Story           storyModel     `gorm:"foreignKey:StoryID;references:ID;constraint:OnDelete:CASCADE"`
}

func (nodeModel) TableName() string { return "story_nodes" }

func toJob(m *jobModel) (*entity.Job, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("job id %q: %w", m.ID, err)
	}
	job := &entity.Job{
		ID:          id,
		SessionID:   m.SessionID,
		Theme:       m.Theme,
		Status:      entity.JobStatus(m.Status),
		Error:       m.Error,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
	if m.StoryID != nil {
		sid, err := uuid.Parse(*m.StoryID)
		if err != nil {
			return nil, fmt.Errorf("story id %q: %w", *m.StoryID, err)
		}
		job.StoryID = &sid
	}
	return job, nil
}

func toStory(m *storyModel) (*entity.Story, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("story id %q: %w", m.ID, err)
	}
	return &entity.Story{ID: id, Title: m.Title, SessionID: m.SessionID, CreatedAt: m.CreatedAt}, nil
}

func toNode(m *nodeModel) (entity.StoryNode, error) {
	n := entity.StoryNode{
		Content:         m.Content,
		IsRoot:          m.IsRoot,
		IsEnding:        m.IsEnding,
		IsWinningEnding: m.IsWinningEnding,
	}
	var err error
	if n.ID, err = uuid.Parse(m.ID); err != nil {
		return n, fmt.Errorf("node id %q: %w", m.ID, err)
	}
	if n.StoryID, err = uuid.Parse(m.StoryID); err != nil {
		return n, fmt.Errorf("node story id %q: %w", m.StoryID, err)
	}
	if err := json.Unmarshal(m.Options, &n.Options); err != nil {
		return n, fmt.Errorf("decode options of node %s: %w", m.ID, err)
	}
	if n.Options == nil {
		n.Options = []entity.Option{}
	}
	return n, nil
}
