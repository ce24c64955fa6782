package kerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	t.Run("Names", func(t *testing.T) {
		assert.Equal(t, "invalid message", InvalidMessage.String())
		assert.Equal(t, "no message available", NoMessageAvailable.Error())
		assert.Equal(t, "error code 99", ErrorCode(99).String())
	})

	t.Run("ErrorString", func(t *testing.T) {
		err := New(InvalidMessage, "invalid message type")
		assert.Equal(t, "invalid message: invalid message type", err.Error())
		assert.Equal(t, "invalid argument", New(InvalidArgument, "").Error())
	})
}

func TestIs(t *testing.T) {
	sentinel := New(InvalidMessage, "invalid message type")
	other := New(InvalidMessage, "invalid message type")

	wrapped := fmt.Errorf("decode record 3: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, InvalidMessage))
	assert.False(t, errors.Is(wrapped, NoMessageAvailable))
	assert.False(t, errors.Is(wrapped, other), "distinct sentinels must not match each other")
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("outer: %w", Errorf(NoMessageAvailable, "slot %d empty", 4)))
	require.True(t, ok)
	assert.Equal(t, NoMessageAvailable, code)

	code, ok = CodeOf(fmt.Errorf("outer: %w", InvalidArgument))
	require.True(t, ok)
	assert.Equal(t, InvalidArgument, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}
