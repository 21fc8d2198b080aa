package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicFromParameter(t *testing.T) {
	t.Run("start marker", func(t *testing.T) {
		magic, ok := MagicFromParameter(1, 3)
		require.True(t, ok)
		assert.Equal(t, MagicStart, magic.Kind)
		assert.Equal(t, ProcessorID(3), magic.Processor)
	})

	t.Run("stop markers keep their code", func(t *testing.T) {
		for _, code := range []int64{2, 3, 100} {
			magic, ok := MagicFromParameter(code, 0)
			require.True(t, ok)
			assert.Equal(t, MagicStop, magic.Kind)
			assert.Equal(t, code, magic.Code)
		}
	})

	t.Run("foreign parameters are not ours", func(t *testing.T) {
		for _, parameter := range []int64{0, -1, -100} {
			_, ok := MagicFromParameter(parameter, 0)
			assert.False(t, ok, "parameter %d", parameter)
		}
	})
}

func TestInputConfigTimeout(t *testing.T) {
	cfg := InputConfig{TimeoutSeconds: 1.5}
	assert.Equal(t, "1.5s", cfg.Timeout().String())
}
