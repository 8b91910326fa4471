package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgress(&out, 2, "Reading chats")

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))

	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Reading chats")
	assert.Contains(t, out.String(), "2/2")
}
