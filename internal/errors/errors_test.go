package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrConfig, "Config file not found", "Run 'fleetwatch init'")

	msg := err.Error()
	assert.Contains(t, msg, "✗ Config file not found")
	assert.Contains(t, msg, "Run 'fleetwatch init'")
}

func TestWrapIncludesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapWithCode(cause, ErrSSH, "Can't reach 'gpu1'", "Check the network")

	msg := err.Error()
	assert.Contains(t, msg, "Can't reach 'gpu1'")
	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "Check the network")
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, "wrapper")

	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrState, "disk full", "")

	assert.True(t, IsCode(err, ErrState))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(nil, ErrState))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrState))

	// Codes survive wrapping in plain errors.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCode(wrapped, ErrState))
}
