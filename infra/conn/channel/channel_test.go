package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairDeliversInOrder(t *testing.T) {
	client, module := NewPair(3)
	defer client.Close()

	payloads := [][]byte{{1}, {2, 2}, {3, 3, 3}}
	for _, p := range payloads {
		require.NoError(t, client.SendMessage(p))
	}
	for _, want := range payloads {
		got, err := module.RecvMessage()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPairIsBidirectional(t *testing.T) {
	client, module := NewPair(1)
	defer client.Close()

	require.NoError(t, client.SendMessage([]byte("ping")))
	got, err := module.RecvMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), got)

	require.NoError(t, module.SendMessage([]byte("pong")))
	got, err = client.RecvMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), got)
}

func TestCloseUnblocksBothSides(t *testing.T) {
	client, module := NewPair(0)

	recvErr := make(chan error)
	go func() {
		_, err := module.RecvMessage()
		recvErr <- err
	}()

	client.Close()
	assert.ErrorIs(t, <-recvErr, ErrChannelClosed)

	err := client.SendMessage([]byte{1})
	assert.ErrorIs(t, err, ErrChannelClosed)

	// повторный Close безопасен
	module.Close()
}
