package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adventure-service/internal/entity"
)

type StoryRepository struct {
	pool *pgxpool.Pool
}

func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

type storyRow struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	SessionID string    `db:"session_id"`
	CreatedAt time.Time `db:"created_at"`
}

type nodeRow struct {
	ID              uuid.UUID `db:"id"`
	StoryID         uuid.UUID `db:"story_id"`
	Content         string    `db:"content"`
	IsRoot          bool      `db:"is_root"`
	IsEnding        bool      `db:"is_ending"`
	IsWinningEnding bool      `db:"is_winning_ending"`
	Options         []byte    `db:"options"`
}

func (r *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	const q = `SELECT id, title, session_id, created_at FROM stories WHERE id = $1;`

	var row storyRow
	if err := pgxscan.Get(ctx, r.pool, &row, q, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &entity.Story{ID: row.ID, Title: row.Title, SessionID: row.SessionID, CreatedAt: row.CreatedAt}, nil
}

// ListNodes returns the nodes of a story in insertion (pre-order) order.
func (r *StoryRepository) ListNodes(ctx context.Context, storyID uuid.UUID) ([]entity.StoryNode, error) {
	const q = `
SELECT id, story_id, content, is_root, is_ending, is_winning_ending, options
FROM story_nodes
WHERE story_id = $1
ORDER BY position;
`
	var rows []nodeRow
	if err := pgxscan.Select(ctx, r.pool, &rows, q, storyID); err != nil {
		return nil, err
	}

	nodes := make([]entity.StoryNode, 0, len(rows))
	for _, row := range rows {
		n := entity.StoryNode{
			ID:              row.ID,
			StoryID:         row.StoryID,
			Content:         row.Content,
			IsRoot:          row.IsRoot,
			IsEnding:        row.IsEnding,
			IsWinningEnding: row.IsWinningEnding,
		}
		if err := json.Unmarshal(row.Options, &n.Options); err != nil {
			return nil, fmt.Errorf("decode options of node %s: %w", n.ID, err)
		}
		if n.Options == nil {
			n.Options = []entity.Option{}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
