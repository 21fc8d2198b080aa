// Package tcp - транспорт клиент<->модуль через tcp: 4 байта длины
// big-endian, затем msgpack полезная нагрузка.
package tcp

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"simfuzz/infra/utils/logger"

	"github.com/pkg/errors"
)

const (
	Protocol       = "tcp"
	TcpDialTimeout = time.Second
)

var ErrConnectionClosed = errors.New("connection closed")

type Connection struct {
	conn net.Conn
}

// Dial - клиентская сторона: подключаемся к хосту симуляции, в котором
// модуль слушает канал
func Dial(addr string, port uint16) (*Connection, error) {
	netConn, err := net.DialTimeout(Protocol, fmt.Sprintf("%s:%d", addr, port), TcpDialTimeout)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Connection{conn: netConn}, nil
}

func (c *Connection) RecvMessage() ([]byte, error) {
	msgLenBytes := make([]byte, 4)
	if _, err := io.ReadFull(c.conn, msgLenBytes); err != nil {
		return nil, wrapClosed(err)
	}
	msgLen := binary.BigEndian.Uint32(msgLenBytes)
	msg := make([]byte, msgLen)
	if _, err := io.ReadFull(c.conn, msg); err != nil {
		return nil, wrapClosed(err)
	}
	logger.Debugf("received %d bytes from %v", msgLen, c.conn.RemoteAddr())
	return msg, nil
}

func (c *Connection) SendMessage(msg []byte) error {
	if err := binary.Write(c.conn, binary.BigEndian, uint32(len(msg))); err != nil {
		return wrapClosed(err)
	}
	n, err := c.conn.Write(msg)
	if err != nil {
		return wrapClosed(err)
	}
	logger.Debugf("sent %d bytes to %v", n, c.conn.RemoteAddr())
	return nil
}

func (c *Connection) String() string {
	return fmt.Sprintf("{remote=%v}", c.conn.RemoteAddr())
}

func (c *Connection) Close() {
	if err := c.conn.Close(); err != nil {
		logger.ErrorMessage("failed to close connection: %s", c)
	}
}

func wrapClosed(err error) error {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return errors.Wrap(ErrConnectionClosed, err.Error())
	}
	return err
}

// Listener - сторона модуля: хост симуляции поднимает слушатель и отдает
// принятое соединение в add-channels модуля
type Listener struct {
	l net.Listener
}

func Listen(addr string, port uint16) (*Listener, error) {
	l, err := net.Listen(Protocol, fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.Debugf("started listening on %s:%d", addr, port)
	return &Listener{l: l}, nil
}

// Accept - принимает ровно одно соединение; у сессии один клиент
func (l *Listener) Accept() (*Connection, error) {
	netConn, err := l.l.Accept()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Connection{conn: netConn}, nil
}

func (l *Listener) Close() {
	if err := l.l.Close(); err != nil {
		logger.Errorf(err, "failed to close listener")
	}
}
