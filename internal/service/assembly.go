package service

import (
	"fmt"

	"adventure-service/internal/entity"
)

// AssembleStory indexes the flat node list by id and resolves the root.
// A story without exactly one root, or with an option pointing outside the
// story, is reported as entity.ErrIntegrity.
func AssembleStory(story *entity.Story, nodes []entity.StoryNode) (*entity.CompleteStory, error) {
	all := make(map[string]entity.StoryNode, len(nodes))
	var (
		root  entity.StoryNode
		roots int
	)
	for _, n := range nodes {
		if n.Options == nil {
			n.Options = []entity.Option{}
		}
		all[n.ID.String()] = n
		if n.IsRoot {
			root = n
			roots++
		}
	}

	switch {
	case roots == 0:
		return nil, fmt.Errorf("%w: story %s has no root node", entity.ErrIntegrity, story.ID)
	case roots > 1:
		return nil, fmt.Errorf("%w: story %s has %d root nodes", entity.ErrIntegrity, story.ID, roots)
	}

	for _, n := range all {
		for _, o := range n.Options {
			if _, ok := all[o.NodeID.String()]; !ok {
				return nil, fmt.Errorf("%w: node %s points to unknown node %s", entity.ErrIntegrity, n.ID, o.NodeID)
			}
		}
	}

	return &entity.CompleteStory{
		ID:        story.ID,
		Title:     story.Title,
		SessionID: story.SessionID,
		CreatedAt: story.CreatedAt,
		RootNode:  root,
		AllNodes:  all,
	}, nil
}
