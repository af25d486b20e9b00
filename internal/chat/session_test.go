package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repox/internal/mcp"
)

// scriptedModel answers from a list and records the history it was given.
type scriptedModel struct {
	replies []string
	errs    []error
	seen    [][]Message
}

func (m *scriptedModel) Reply(_ context.Context, history []Message, _ ToolBox) (string, error) {
	m.seen = append(m.seen, history)
	i := len(m.seen) - 1
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.replies) {
		return m.replies[i], nil
	}
	return fmt.Sprintf("reply %d", i+1), nil
}

type noTools struct{}

func (noTools) Tools() []mcp.Tool { return nil }
func (noTools) Call(context.Context, string, map[string]interface{}) (string, error) {
	return "", errors.New("no tools")
}

func TestSessionAsk(t *testing.T) {
	model := &scriptedModel{replies: []string{"It is a Go project."}}
	s := NewSession(model, noTools{}, 6, nil)

	reply, err := s.Ask(context.Background(), "  what is this?  ")
	require.NoError(t, err)
	assert.Equal(t, "It is a Go project.", reply)

	require.Len(t, model.seen, 1)
	assert.Equal(t, []Message{{Role: RoleHuman, Content: "what is this?"}}, model.seen[0])

	assert.Equal(t, []Message{
		{Role: RoleHuman, Content: "what is this?"},
		{Role: RoleAssistant, Content: "It is a Go project."},
	}, s.History())
	assert.NotEmpty(t, s.ID())
}

func TestSessionWindow(t *testing.T) {
	model := &scriptedModel{}
	s := NewSession(model, noTools{}, 6, nil)

	for i := 1; i <= 5; i++ {
		_, err := s.Ask(context.Background(), fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	history := s.History()
	assert.Len(t, history, 6)
	assert.Equal(t, "q3", history[0].Content)
	assert.Equal(t, "reply 5", history[5].Content)

	// The model saw at most the window plus the new question.
	assert.Len(t, model.seen[4], 7)
}

func TestSessionModelErrorDropsQuestion(t *testing.T) {
	boom := errors.New("rate limited")
	model := &scriptedModel{errs: []error{nil, boom}}
	s := NewSession(model, noTools{}, 6, nil)

	_, err := s.Ask(context.Background(), "first")
	require.NoError(t, err)

	_, err = s.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.History(), 2)

	reply, err := s.Ask(context.Background(), "third")
	require.NoError(t, err)
	assert.Equal(t, "reply 3", reply)
	assert.Equal(t, []Message{
		{Role: RoleHuman, Content: "first"},
		{Role: RoleAssistant, Content: "reply 1"},
	}, model.seen[2][:2])
}
