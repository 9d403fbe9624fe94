package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimTurns(t *testing.T) {
	state := NewState()
	for _, content := range []string{"a", "b", "c", "d", "e"} {
		state.AppendTurn(RoleUser, content)
	}

	overflow := state.TrimTurns(3)

	assert.Len(t, overflow, 2)
	assert.Equal(t, "a", overflow[0].Content)
	assert.Equal(t, "b", overflow[1].Content)

	assert.Len(t, state.Turns, 3)
	assert.Equal(t, "c", state.Turns[0].Content)
}

func TestTrimTurns_NoOverflow(t *testing.T) {
	state := NewState()
	state.AppendTurn(RoleUser, "a")

	assert.Nil(t, state.TrimTurns(3))
	assert.Len(t, state.Turns, 1)

	assert.Nil(t, state.TrimTurns(0))
}
