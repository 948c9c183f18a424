package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "scholarship-approval:", nil)
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "calendar:ps-1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "calendar:ps-1", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "calendar:ps-1"))
	assert.Equal(t, "scholarship-approval:calendar:ps-1", repo.key("calendar:ps-1"))
}
