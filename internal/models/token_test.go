package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	token := RefreshToken{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, token.Active(now))
	assert.False(t, token.Active(now.Add(time.Minute)))

	token.Revoked = true
	assert.False(t, token.Active(now))
}

func TestRefreshTokenHidesSecretInJSON(t *testing.T) {
	raw, err := json.Marshal(RefreshToken{ID: "rt-1", Token: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}
