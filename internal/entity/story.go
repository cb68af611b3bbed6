package entity

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Option is a labelled edge to another node of the same story.
type Option struct {
	Text   string    `json:"text"`
	NodeID uuid.UUID `json:"node_id"`
}

type StoryNode struct {
	ID              uuid.UUID `json:"id"`
	StoryID         uuid.UUID `json:"-"`
	Content         string    `json:"content"`
	IsRoot          bool      `json:"is_root"`
	IsEnding        bool      `json:"is_ending"`
	IsWinningEnding bool      `json:"is_winning_ending"`
	Options         []Option  `json:"options"`
}

// CompleteStory is a story with its whole node tree resolved.
type CompleteStory struct {
	ID        uuid.UUID            `json:"id"`
	Title     string               `json:"title"`
	SessionID string               `json:"session_id"`
	CreatedAt time.Time            `json:"created_at"`
	RootNode  StoryNode            `json:"root_node"`
	AllNodes  map[string]StoryNode `json:"all_nodes"`
}
