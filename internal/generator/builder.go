package generator

import (
	"fmt"

	"github.com/google/uuid"

	"adventure-service/internal/entity"
)

const (
	DefaultMaxNodes = 15
	// DefaultMaxDepth never binds before the node cap: a chain of
	// DefaultMaxNodes nodes reaches depth DefaultMaxNodes-1.
	DefaultMaxDepth = DefaultMaxNodes
)

// Limits bound the size of a built tree. Depth is counted from the root at 0.
type Limits struct {
	MaxNodes int
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{MaxNodes: DefaultMaxNodes, MaxDepth: DefaultMaxDepth}
}

// Tree is a flattened story tree in pre-order. Nodes carry no story id yet.
type Tree struct {
	RootID    uuid.UUID
	Nodes     []entity.StoryNode
	Truncated bool
}

type Builder struct {
	limits Limits
	newID  func() uuid.UUID
}

func NewBuilder(limits Limits) *Builder {
	if limits.MaxNodes <= 0 {
		limits.MaxNodes = DefaultMaxNodes
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	return &Builder{limits: limits, newID: uuid.New}
}

// Build walks the nested root value once and returns the flattened tree.
//
// Once the node counter reaches MaxNodes, the node that reached it becomes an
// ending and no further siblings are visited. A node at MaxDepth also becomes
// an ending. A non-ending node left without options is turned into an ending.
func (b *Builder) Build(root any) (*Tree, error) {
	st := &buildState{limits: b.limits, newID: b.newID}

	rootID, err := st.visit(root, 0, "rootNode")
	if err != nil {
		return nil, err
	}

	return &Tree{RootID: rootID, Nodes: st.nodes, Truncated: st.truncated}, nil
}

// buildState is owned by a single Build call.
type buildState struct {
	limits    Limits
	newID     func() uuid.UUID
	nodes     []entity.StoryNode
	truncated bool
}

func (st *buildState) atCapacity() bool {
	return len(st.nodes) >= st.limits.MaxNodes
}

func (st *buildState) visit(v any, depth int, path string) (uuid.UUID, error) {
	nd, err := decodeNode(v, path)
	if err != nil {
		return uuid.Nil, err
	}

	id := st.newID()
	idx := len(st.nodes)
	st.nodes = append(st.nodes, entity.StoryNode{
		ID:      id,
		Content: nd.Content,
		IsRoot:  depth == 0,
	})

	options := []entity.Option{}
	ending := nd.IsEnding
	if !ending {
		raw, err := nd.optionList(path)
		if err != nil {
			return uuid.Nil, err
		}

		if len(raw) > 0 && (st.atCapacity() || depth >= st.limits.MaxDepth) {
			st.truncated = true
			raw = nil
		}

		for i, item := range raw {
			if st.atCapacity() {
				st.truncated = true
				break
			}

			optPath := fmt.Sprintf("%s.options[%d]", path, i)
			opt, err := decodeOption(item, optPath)
			if err != nil {
				return uuid.Nil, err
			}

			childID, err := st.visit(opt.Next, depth+1, optPath+".nextNode")
			if err != nil {
				return uuid.Nil, err
			}
			options = append(options, entity.Option{Text: opt.Text, NodeID: childID})
		}

		ending = len(options) == 0
	}

	node := &st.nodes[idx]
	node.IsEnding = ending
	node.IsWinningEnding = ending && nd.IsWinningEnding
	node.Options = options

	return id, nil
}
