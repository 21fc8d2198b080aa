package tcp

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRoundTrip(t *testing.T) {
	listener, err := Listen("127.0.0.1", 0)
	require.NoError(t, err)
	defer listener.Close()
	port := uint16(listener.l.Addr().(*net.TCPAddr).Port)

	accepted := make(chan *Connection)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			t.Errorf("can't accept connection: %v", err)
			close(accepted)
			return
		}
		accepted <- conn
	}()

	clientConn, err := Dial("127.0.0.1", port)
	require.NoError(t, err)
	defer clientConn.Close()

	moduleConn := <-accepted
	require.NotNil(t, moduleConn)
	defer moduleConn.Close()

	payloads := [][]byte{
		{0xde, 0xad},
		make([]byte, 1<<16), // больше одного tcp сегмента
		{},
	}
	for _, want := range payloads {
		require.NoError(t, clientConn.SendMessage(want))
		got, err := moduleConn.RecvMessage()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// обратное направление тем же соединением
	require.NoError(t, moduleConn.SendMessage([]byte("stopped")))
	got, err := clientConn.RecvMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("stopped"), got)
}

func TestRecvOnClosedConnection(t *testing.T) {
	listener, err := Listen("127.0.0.1", 0)
	require.NoError(t, err)
	defer listener.Close()
	port := uint16(listener.l.Addr().(*net.TCPAddr).Port)

	accepted := make(chan *Connection)
	go func() {
		conn, _ := listener.Accept()
		accepted <- conn
	}()

	clientConn, err := Dial("127.0.0.1", port)
	require.NoError(t, err)
	moduleConn := <-accepted
	require.NotNil(t, moduleConn)

	clientConn.Close()
	_, err = moduleConn.RecvMessage()
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestDialUnreachable(t *testing.T) {
	_, err := Dial("127.0.0.1", 1)
	assert.Error(t, err)
}
