// Package protocol - двусторонний протокол синхронизации клиента (драйвера
// фаззера) и модуля, живущего внутри симулятора. Все сообщения ходят строго
// по очереди, порядок контролируется машиной состояний (state.go).
package protocol

import (
	"fmt"

	"simfuzz/entities"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	// client -> module
	KindInitialize
	KindRun
	KindReset
	KindExit
	// module -> client
	KindInitialized
	KindReady
	KindStopped
)

func (k Kind) String() string {
	switch k {
	case KindInitialize:
		return "Initialize"
	case KindRun:
		return "Run"
	case KindReset:
		return "Reset"
	case KindExit:
		return "Exit"
	case KindInitialized:
		return "Initialized"
	case KindReady:
		return "Ready"
	case KindStopped:
		return "Stopped"
	}
	return "Invalid"
}

// Message - одно сообщение протокола, клиентское или модульное
type Message interface {
	Kind() Kind
}

// Initialize - клиент передает настройки кампании
type Initialize struct {
	Config entities.InputConfig
}

func (Initialize) Kind() Kind { return KindInitialize }

// Run - клиент передает один тест-кейс
type Run struct {
	Input []byte
}

func (Run) Kind() Kind { return KindRun }

func (r Run) String() string { return fmt.Sprintf("{Run len(Input)=%d}", len(r.Input)) }

// Reset - клиент просит откатиться к исходному снапшоту
type Reset struct{}

func (Reset) Kind() Kind { return KindReset }

// Exit - клиент завершает сессию
type Exit struct{}

func (Exit) Kind() Kind { return KindExit }

// Initialized - модуль отвечает раскладкой памяти и каналов
type Initialized struct {
	Config entities.OutputConfig
}

func (Initialized) Kind() Kind { return KindInitialized }

// Ready - откат завершен, таргет готов принимать вход
type Ready struct{}

func (Ready) Kind() Kind { return KindReady }

// Stopped - последний запуск завершился
type Stopped struct {
	Reason entities.StopReason
}

func (Stopped) Kind() Kind { return KindStopped }

func (s Stopped) String() string { return fmt.Sprintf("{Stopped %v}", s.Reason) }

// IsClientKind - сообщения направления клиент->модуль
func IsClientKind(k Kind) bool {
	switch k {
	case KindInitialize, KindRun, KindReset, KindExit:
		return true
	}
	return false
}

// IsModuleKind - сообщения направления модуль->клиент
func IsModuleKind(k Kind) bool {
	switch k {
	case KindInitialized, KindReady, KindStopped:
		return true
	}
	return false
}
