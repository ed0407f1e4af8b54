package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	data, err := ReadAll(context.Background(), strings.NewReader(`[[{"x": 1, "y": 2}]]`))
	require.NoError(t, err)
	assert.Equal(t, `[[{"x": 1, "y": 2}]]`, string(data))
}

func TestReadAll_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAll(ctx, r)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
