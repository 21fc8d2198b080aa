package protocol

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrProtocolViolation - сообщение не разрешено из текущего состояния.
	// Это рассинхрон сторон, то есть баг, сессия не подлежит восстановлению.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrUnexpectedReply - клиент получил валидное сообщение не того варианта
	ErrUnexpectedReply = errors.New("unexpected reply")
	// ErrTransportFailure - обрыв канала или битая полезная нагрузка
	ErrTransportFailure = errors.New("transport failure")
)

// ViolationError - детали нарушения протокола: какое сообщение и из какого
// состояния его попытались провести
type ViolationError struct {
	State   State
	Message Kind
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("protocol violation: message %s is not permitted in state %s", e.Message, e.State)
}

func (e *ViolationError) Is(target error) bool {
	return target == ErrProtocolViolation
}
