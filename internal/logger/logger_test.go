package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLoggerCapturesLevels(t *testing.T) {
	log := NewBufferLogger()

	log.Debug("d %d", 1)
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	assert.Len(t, log.Messages, 4)
	assert.Equal(t, "d 1", log.Messages[0].Message)
	assert.True(t, log.HasLevel("debug"))
	assert.True(t, log.HasLevel("error"))
	assert.False(t, log.HasLevel("fatal"))

	log.Clear()
	assert.Empty(t, log.Messages)
}

func TestNoopLoggerDiscards(t *testing.T) {
	log := Noop()

	// Must not panic; nothing to observe.
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
}
