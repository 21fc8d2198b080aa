package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupIsOneShot(t *testing.T) {
	Setup("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	// повторная настройка игнорируется
	Setup("error")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup("not-a-level")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
