package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsInvalidOption(nil))
	assert.False(t, IsMalformedParameter(nil))
}

func TestSentinels(t *testing.T) {
	t.Run("wrapped malformed parameter", func(t *testing.T) {
		err := Wrapf(ErrMalformedParameter, "parameter %q", "support")
		assert.True(t, IsMalformedParameter(err))
		assert.False(t, IsInvalidOption(err))
	})

	t.Run("integrity error keeps its message", func(t *testing.T) {
		err := NewIntegrityError("row %d has %d values", 3, 2)
		assert.Equal(t, "row 3 has 2 values", err.Error())
		assert.True(t, Is(err, ErrIntegrity))
	})

	t.Run("unsupported error", func(t *testing.T) {
		err := NewUnsupportedError("format %s", "xml")
		assert.True(t, Is(err, ErrUnsupported))
		assert.False(t, Is(err, ErrIntegrity))
	})
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("unknown route %d", 9)
	assert.True(t, IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "unknown route 9")
}

func ExampleWrap() {
	baseErr := New("connection refused")
	err := Wrap(baseErr, "failed to open database")
	fmt.Println(err)
	// Output: failed to open database: connection refused
}
