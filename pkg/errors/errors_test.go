package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsIdentityForErrorsIs(t *testing.T) {
	clone := Clone(ErrInvalidTransition, "report already decided")
	require.True(t, stdErrors.Is(clone, ErrInvalidTransition))
	assert.Equal(t, "report already decided", clone.Message)
	assert.Equal(t, http.StatusConflict, clone.Status)
	assert.False(t, stdErrors.Is(clone, ErrForbiddenLevelMismatch))
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)

	wrapped := fmt.Errorf("approve: %w", ErrSelfReviewForbidden)
	assert.Equal(t, ErrSelfReviewForbidden, FromError(wrapped))
}

func TestInternalPreservesCause(t *testing.T) {
	cause := stdErrors.New("db down")
	err := Internal(cause, "failed to load report")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load report: db down", err.Error())
}
