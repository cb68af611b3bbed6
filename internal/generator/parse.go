package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidJSON      = errors.New("model returned invalid JSON")
	ErrInvalidStructure = errors.New("invalid story structure")
)

// Draft is a parsed story that has not been persisted yet.
type Draft struct {
	Title string
	Tree  *Tree
}

// ParseStory extracts, decodes and builds a story from raw model output.
func (b *Builder) ParseStory(text string) (*Draft, error) {
	candidate := ExtractJSON(text)

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	rawTitle, ok := doc["title"]
	if !ok {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidStructure)
	}
	title, ok := rawTitle.(string)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must be a non-empty string", ErrInvalidStructure)
	}

	root, ok := doc["rootNode"]
	if !ok || root == nil {
		return nil, fmt.Errorf("%w: missing rootNode", ErrInvalidStructure)
	}

	tree, err := b.Build(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}

	return &Draft{Title: strings.TrimSpace(title), Tree: tree}, nil
}
