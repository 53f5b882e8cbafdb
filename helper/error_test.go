package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	original := errors.New("connection refused")

	t.Run("Nil error stays nil", func(t *testing.T) {
		assert.NoError(t, NewError("connect", nil))
	})

	t.Run("Wrap an error", func(t *testing.T) {
		err := NewError("connect", original)
		assert.EqualError(t, err, "connect: connection refused")
		assert.ErrorIs(t, err, original, "Expected the original error to be reachable")
	})

	t.Run("Wrapping again extends the trace", func(t *testing.T) {
		err := NewError("create graphs handler", NewError("load graphs sql", original))
		assert.EqualError(t, err, "create graphs handler: load graphs sql: connection refused")

		var traced *Error
		require.True(t, errors.As(err, &traced))
		assert.Equal(t, []string{"create graphs handler", "load graphs sql"}, traced.Trace)
		assert.Same(t, original, traced.Original)
	})

	t.Run("Sentinel errors survive wrapping", func(t *testing.T) {
		err := NewError("use store", ErrNilDatabase)
		assert.ErrorIs(t, err, ErrNilDatabase)
	})
}
