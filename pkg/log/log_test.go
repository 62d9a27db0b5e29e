package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		err := Init(Config{Level: "debug", Format: "json", Output: "stdout"})
		assert.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
		_, ok := GetLogger().Formatter.(*logrus.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("text format", func(t *testing.T) {
		err := Init(Config{Level: "warn", Format: "text", Output: "stdout"})
		assert.NoError(t, err)
		assert.Equal(t, logrus.WarnLevel, GetLogger().GetLevel())
		_, ok := GetLogger().Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		err := Init(Config{Level: "nonsense", Format: "json", Output: "stdout"})
		assert.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, GetLogger().GetLevel())
	})
}

func TestGetLoggerWithoutInit(t *testing.T) {
	logger = nil
	assert.NotNil(t, GetLogger())
}

func TestWithFields(t *testing.T) {
	entry := WithFields(logrus.Fields{"order_no": "FD1", "customer_id": 2})
	assert.Equal(t, "FD1", entry.Data["order_no"])
}
