package protocol

import (
	"simfuzz/infra/utils/msgpack"

	"github.com/pkg/errors"
)

// Conn - надежный упорядоченный канал для сериализованных сообщений.
// Реализации живут в infra/conn (tcp и внутрипроцессный вариант).
type Conn interface {
	SendMessage(msg []byte) error
	RecvMessage() ([]byte, error)
}

// ClientEndpoint - типизированный конец канала со стороны клиента
type ClientEndpoint struct {
	conn      Conn
	converter msgpack.Converter
}

func NewClientEndpoint(conn Conn) *ClientEndpoint {
	return &ClientEndpoint{
		conn:      conn,
		converter: msgpack.New(),
	}
}

func (e *ClientEndpoint) Send(msg Message) error {
	data, err := EncodeClientMessage(e.converter, msg)
	if err != nil {
		return err
	}
	if err := e.conn.SendMessage(data); err != nil {
		return errors.Wrapf(ErrTransportFailure, "failed to send %s: %v", msg.Kind(), err)
	}
	return nil
}

func (e *ClientEndpoint) Recv() (Message, error) {
	data, err := e.conn.RecvMessage()
	if err != nil {
		return nil, errors.Wrapf(ErrTransportFailure, "failed to receive module message: %v", err)
	}
	msg, err := DecodeModuleMessage(data)
	if err != nil {
		return nil, errors.Wrapf(ErrTransportFailure, "malformed module message: %v", err)
	}
	return msg, nil
}

// ModuleEndpoint - типизированный конец канала со стороны модуля
type ModuleEndpoint struct {
	conn      Conn
	converter msgpack.Converter
}

func NewModuleEndpoint(conn Conn) *ModuleEndpoint {
	return &ModuleEndpoint{
		conn:      conn,
		converter: msgpack.New(),
	}
}

func (e *ModuleEndpoint) Send(msg Message) error {
	data, err := EncodeModuleMessage(e.converter, msg)
	if err != nil {
		return err
	}
	if err := e.conn.SendMessage(data); err != nil {
		return errors.Wrapf(ErrTransportFailure, "failed to send %s: %v", msg.Kind(), err)
	}
	return nil
}

func (e *ModuleEndpoint) Recv() (Message, error) {
	data, err := e.conn.RecvMessage()
	if err != nil {
		return nil, errors.Wrapf(ErrTransportFailure, "failed to receive client message: %v", err)
	}
	msg, err := DecodeClientMessage(data)
	if err != nil {
		return nil, errors.Wrapf(ErrTransportFailure, "malformed client message: %v", err)
	}
	return msg, nil
}
