package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindAndCodeIgnoringField(t *testing.T) {
	err := ErrMissingField.WithField("check_in")

	assert.True(t, errors.Is(err, ErrMissingField))
	assert.False(t, errors.Is(err, Validation("InvalidDate")))
	assert.False(t, errors.Is(err, Conflict("MissingField")))
	assert.Equal(t, "check_in", err.Field)
}

func TestAs_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Conflict("ActiveBookingsExist"))

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, "ActiveBookingsExist", CodeOf(wrapped))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, "", CodeOf(errors.New("boom")))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "validation: MissingField (email)", ErrMissingField.WithField("email").Error())
	assert.Equal(t, "authorization: NotPermitted", ErrNotPermitted.Error())
}
