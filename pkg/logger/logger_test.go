package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/pkg/config"
)

func TestRotatingFileUsesLogSettings(t *testing.T) {
	cfg := config.LogConfig{File: "/var/log/approval.log", FileMaxSizeMB: 50, FileBackups: 3, FileMaxAgeDay: 7, FileCompress: true}
	w := RotatingFile(cfg)
	assert.Equal(t, "/var/log/approval.log", w.Filename)
	assert.Equal(t, 50, w.MaxSize)
	assert.Equal(t, 3, w.MaxBackups)
	assert.Equal(t, 7, w.MaxAge)
	assert.True(t, w.Compress)
}

func TestNewWithFileTee(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{
		Level: "debug", Format: "console", File: filepath.Join(t.TempDir(), "api.log"), FileMaxSizeMB: 1,
	}}
	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("boot")
	_ = l.Sync()
}
