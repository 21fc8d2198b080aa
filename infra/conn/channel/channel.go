// Package channel - внутрипроцессный транспорт: две однонаправленные
// очереди, FIFO, как mpsc-каналы. Используется когда клиент и модуль
// живут в одном процессе (и в тестах).
package channel

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrChannelClosed = errors.New("channel closed")

type Endpoint struct {
	send chan []byte
	recv chan []byte

	done      chan struct{}
	closeOnce *sync.Once
}

// NewPair - создает два связанных конца; что один отправил, другой получит
// в том же порядке
func NewPair(buffer int) (*Endpoint, *Endpoint) {
	clientToModule := make(chan []byte, buffer)
	moduleToClient := make(chan []byte, buffer)
	done := make(chan struct{})
	once := &sync.Once{}

	client := &Endpoint{
		send:      clientToModule,
		recv:      moduleToClient,
		done:      done,
		closeOnce: once,
	}
	module := &Endpoint{
		send:      moduleToClient,
		recv:      clientToModule,
		done:      done,
		closeOnce: once,
	}
	return client, module
}

func (e *Endpoint) SendMessage(msg []byte) error {
	select {
	case <-e.done:
		return ErrChannelClosed
	default:
	}
	select {
	case e.send <- msg:
		return nil
	case <-e.done:
		return ErrChannelClosed
	}
}

func (e *Endpoint) RecvMessage() ([]byte, error) {
	select {
	case msg := <-e.recv:
		return msg, nil
	case <-e.done:
		return nil, ErrChannelClosed
	}
}

// Close - закрывает обе стороны; зависшие Send/Recv возвращают ошибку
func (e *Endpoint) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}
