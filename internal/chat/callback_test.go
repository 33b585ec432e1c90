package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRoundTrip(t *testing.T) {
	for _, c := range []Callback{
		LearnerCallback(ActionPassage, 12),
		OperatorCallback(ActionMarkCorrect, 7),
		OperatorCallback(ActionRetire, 3),
	} {
		got, err := ParseCallback(c.Encode())
		require.NoError(t, err, c.Encode())
		assert.Equal(t, c, got)
	}
	assert.Equal(t, "op:hide_passage:42", OperatorCallback(ActionHidePassage, 42).Encode())
}

func TestParseCallbackRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"u:passage",
		"u:passage:abc",
		"u:passage:0",
		"u:passage:-1",
		"x:passage:1",
		"op:delete:1",
		"u:mark_correct:1",
		"op:retire:1:extra",
	} {
		_, err := ParseCallback(raw)
		assert.ErrorIs(t, err, ErrInvalidCallback, raw)
	}
}

func TestTargetsQuestion(t *testing.T) {
	assert.True(t, LearnerCallback(ActionPassage, 1).TargetsQuestion())
	assert.True(t, OperatorCallback(ActionRestore, 1).TargetsQuestion())
	assert.False(t, OperatorCallback(ActionPassage, 1).TargetsQuestion())
	assert.False(t, OperatorCallback(ActionMarkIncorrect, 1).TargetsQuestion())
}
