package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := Newf(CodeNotFound, "course %d not found", 7)

	require.True(t, errors.Is(err, New(CodeNotFound, "anything")))
	require.False(t, errors.Is(err, New(CodeValidation, "anything")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("parse failure")
	err := Wrap(CodeValidation, "invalid due date", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "invalid due date")
	require.Contains(t, err.Error(), "parse failure")
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeWeightExceeded, CodeOf(New(CodeWeightExceeded, "over the cap")))
	require.Equal(t, Code(""), CodeOf(errors.New("plain")))
	require.Equal(t, Code(""), CodeOf(nil))

	// Codes survive fmt wrapping.
	wrapped := fmt.Errorf("outer: %w", New(CodeDuplicate, "taken"))
	require.Equal(t, CodeDuplicate, CodeOf(wrapped))
}
