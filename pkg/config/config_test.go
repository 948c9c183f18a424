package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")
	t.Setenv("WORKFLOW_MAX_JUSTIFICATION", "0")
	t.Setenv("CALENDAR_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "approval.decisions", cfg.Kafka.Topic)
	assert.Equal(t, 3000, cfg.Workflow.MaxJustification)
	assert.Equal(t, 10*time.Minute, cfg.Calendar.CacheTTL)
	assert.Equal(t, int64(10*1024*1024), cfg.Documents.MaxFileSizeBytes)
	assert.Equal(t, "scholarship-approval:", cfg.Redis.KeyPrefix)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CORS.MaxAge)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a ,, b"))
}
