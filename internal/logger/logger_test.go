package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"access_code", "1234", "worksheet", "Logs", "dangling"})

	assert.Equal(t, []interface{}{"access_code", "[REDACTED]", "worksheet", "Logs", "dangling"}, out)
}

func TestNopLoggerIsSafe(t *testing.T) {
	log := Nop().With("service", "test")
	log.Info("hello", "session_secret", "x")
	log.Sync()
}
