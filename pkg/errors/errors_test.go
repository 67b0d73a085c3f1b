package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrRemote, "cannot delete student with enrollments")

	assert.True(t, errors.Is(err, ErrRemote))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, "cannot delete student with enrollments", DisplayMessage(err))
}

func TestDisplayMessageFallsBackForPlainErrors(t *testing.T) {
	assert.Equal(t, MessageGeneric, DisplayMessage(fmt.Errorf("boom")))
	assert.Equal(t, "", DisplayMessage(nil))
	assert.Equal(t, MessageNetwork, DisplayMessage(Wrap(fmt.Errorf("dial tcp"), ErrNetwork.Code, ErrNetwork.Status, ErrNetwork.Message)))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.True(t, HasCode(appErr, "INTERNAL_ERROR"))
}
