package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/journal-sift/internal/audit"
)

var _ audit.Progress = (*Progress)(nil)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	progress := NewProgress(&out, 3)

	require.NoError(t, progress.Add(1))
	require.NoError(t, progress.Add(2))
	assert.Equal(t, int64(3), progress.State())
	assert.Contains(t, out.String(), "Evaluating entries")
}
