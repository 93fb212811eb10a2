//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"localbiz-bookings/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("resource not found")
	cause := errs.New("no rows in result set")

	t.Run("sentinel is visible to errors.Is", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		require.Error(t, marked)
		assert.True(t, errors.Is(marked, sentinel))
	})

	t.Run("original cause stays visible", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.True(t, errors.Is(marked, cause))
	})

	t.Run("survives further wrapping", func(t *testing.T) {
		marked := errs.Wrap(errs.Mark(cause, sentinel), "loading booking")
		assert.True(t, errors.Is(marked, sentinel))
		assert.True(t, errors.Is(marked, cause))
	})

	t.Run("nil cause returns the sentinel itself", func(t *testing.T) {
		assert.Equal(t, sentinel, errs.Mark(nil, sentinel))
	})

	t.Run("unrelated sentinel does not match", func(t *testing.T) {
		other := errs.New("forbidden")
		marked := errs.Mark(cause, sentinel)
		assert.False(t, errors.Is(marked, other))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))
}
