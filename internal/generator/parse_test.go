package generator

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStory_Fenced(t *testing.T) {
	raw, err := os.ReadFile("testdata/fantasy.json")
	require.NoError(t, err)

	draft, err := NewBuilder(DefaultLimits()).ParseStory(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "The Dragon's Bargain", draft.Title)
	assert.Len(t, draft.Tree.Nodes, 7)
}

func TestParseStory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		wantMsg string
	}{
		{
			name:    "truncated output",
			in:      `{"title":"Lost","rootNode":{"content":"You wake up","options":[{"text":"Stand"`,
			wantErr: ErrInvalidJSON,
			wantMsg: "invalid JSON",
		},
		{
			name:    "not json at all",
			in:      "I'm sorry, I can't do that.",
			wantErr: ErrInvalidJSON,
			wantMsg: "invalid JSON",
		},
		{
			name:    "missing title",
			in:      `{"rootNode":{"content":"x"}}`,
			wantErr: ErrInvalidStructure,
			wantMsg: "missing title",
		},
		{
			name:    "blank title",
			in:      `{"title":"  ","rootNode":{"content":"x"}}`,
			wantErr: ErrInvalidStructure,
		},
		{
			name:    "missing root node",
			in:      `{"title":"x"}`,
			wantErr: ErrInvalidStructure,
			wantMsg: "missing rootNode",
		},
		{
			name:    "null root node",
			in:      `{"title":"x","rootNode":null}`,
			wantErr: ErrInvalidStructure,
		},
		{
			name:    "malformed node",
			in:      `{"title":"x","rootNode":{"options":5}}`,
			wantErr: ErrMalformedNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := NewBuilder(DefaultLimits()).ParseStory(tt.in)
			require.Error(t, err)
			assert.Nil(t, draft)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUserPrompt_SubstitutesTheme(t *testing.T) {
	p := UserPrompt("cyberpunk")
	assert.Contains(t, p, "Write a cyberpunk choose-your-own-adventure story")
	assert.NotContains(t, p, themePlaceholder)
}
