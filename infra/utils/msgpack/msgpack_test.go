package msgpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type variantPayload struct {
	Code  int64  `msgpack:"code"`
	Label string `msgpack:"label"`
}

func TestVariantRoundTrip(t *testing.T) {
	conv := New()

	t.Run("with payload", func(t *testing.T) {
		data, err := conv.MarshalVariant("Crash", variantPayload{Code: -1, Label: "triple fault"})
		require.NoError(t, err)

		name, raw, err := UnmarshalVariant(data)
		require.NoError(t, err)
		assert.Equal(t, "Crash", name)

		decoded := variantPayload{}
		require.NoError(t, Unmarshal(raw, &decoded))
		assert.Equal(t, variantPayload{Code: -1, Label: "triple fault"}, decoded)
	})

	t.Run("unit variant", func(t *testing.T) {
		data, err := conv.MarshalVariant("Reset", nil)
		require.NoError(t, err)

		name, _, err := UnmarshalVariant(data)
		require.NoError(t, err)
		assert.Equal(t, "Reset", name)
	})

	t.Run("converter is reusable", func(t *testing.T) {
		first, err := conv.MarshalVariant("A", 1)
		require.NoError(t, err)
		second, err := conv.MarshalVariant("B", 2)
		require.NoError(t, err)

		name, _, err := UnmarshalVariant(first)
		require.NoError(t, err)
		assert.Equal(t, "A", name)
		name, _, err = UnmarshalVariant(second)
		require.NoError(t, err)
		assert.Equal(t, "B", name)
	})
}

func TestUnmarshalVariantRejectsNonEnum(t *testing.T) {
	conv := New()

	t.Run("two keys", func(t *testing.T) {
		data, err := conv.Marshal(map[string]int{"A": 1, "B": 2})
		require.NoError(t, err)
		_, _, err = UnmarshalVariant(data)
		assert.Error(t, err)
	})

	t.Run("not a map", func(t *testing.T) {
		data, err := conv.Marshal([]int{1, 2, 3})
		require.NoError(t, err)
		_, _, err = UnmarshalVariant(data)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := UnmarshalVariant([]byte{1, 2, 3, 4, 5, 222, 234})
		assert.Error(t, err)
	})
}
