//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"offer-compare/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, errs.Wrap(nil, "context"))
		assert.NoError(t, errs.Wrapf(nil, "context %d", 1))
	})

	t.Run("wrapped error keeps its chain", func(t *testing.T) {
		err := errs.Wrapf(errSentinel, "decode %s", "payload")
		require.Error(t, err)
		assert.ErrorIs(t, err, errSentinel)
		assert.Contains(t, err.Error(), "decode payload")
	})
}

func TestMark(t *testing.T) {
	t.Run("nil returns the mark", func(t *testing.T) {
		assert.Equal(t, errSentinel, errs.Mark(nil, errSentinel))
	})

	t.Run("marked error matches the mark and keeps its message", func(t *testing.T) {
		err := errs.Mark(errs.New("bad base64"), errSentinel)
		assert.True(t, errs.Is(err, errSentinel))
		assert.ErrorIs(t, err, errSentinel)
		assert.Contains(t, err.Error(), "bad base64")
	})
}

func TestExtractStackLines(t *testing.T) {
	assert.Nil(t, errs.ExtractStackLines(nil, 5))

	lines := errs.ExtractStackLines(errs.New("boom"), 3)
	assert.LessOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "boom")
}
