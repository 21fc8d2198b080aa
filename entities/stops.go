package entities

import "fmt"

type (
	// ProcessorID - номер симулируемого процессора в регистре модуля
	ProcessorID int32
	// Fault - код исключения/прерывания (например, -1 это triple fault на x86)
	Fault int64
)

type StopKind uint8

const (
	StopUnknown StopKind = iota
	StopMagic
	StopSimulationExit
	StopCrash
	StopTimeOut
	StopError
)

func (k StopKind) String() string {
	switch k {
	case StopMagic:
		return "Magic"
	case StopSimulationExit:
		return "SimulationExit"
	case StopCrash:
		return "Crash"
	case StopTimeOut:
		return "TimeOut"
	case StopError:
		return "Error"
	}
	return "Unknown"
}

// StopReason - причина остановки симуляции, закрытое множество вариантов.
// Производится только модулем во время классификации остановки.
type StopReason interface {
	StopKind() StopKind
}

type MagicKind uint8

const (
	MagicStart MagicKind = 1
	MagicStop  MagicKind = 2
)

// Magic - таргет исполнил маркерную инструкцию харнесса.
// Value заполняется модулем при классификации Stop (значение регистра результата).
type Magic struct {
	Kind      MagicKind   `msgpack:"kind"`
	Code      int64       `msgpack:"code"`
	Value     *uint64     `msgpack:"value,omitempty"`
	Processor ProcessorID `msgpack:"processor"`
}

func (Magic) StopKind() StopKind { return StopMagic }

func (m Magic) String() string {
	if m.Kind == MagicStart {
		return fmt.Sprintf("{Magic Start processor=%d}", m.Processor)
	}
	if m.Value != nil {
		return fmt.Sprintf("{Magic Stop code=%d value=%#x processor=%d}", m.Code, *m.Value, m.Processor)
	}
	return fmt.Sprintf("{Magic Stop code=%d processor=%d}", m.Code, m.Processor)
}

// MagicFromParameter - декодирует параметр магической инструкции.
// Значение 1 зарезервировано под вход в харнесс, все коды выше обозначают
// завершение итерации с этим кодом. Остальные параметры не наши.
func MagicFromParameter(parameter int64, processor ProcessorID) (Magic, bool) {
	switch {
	case parameter == int64(MagicStart):
		return Magic{Kind: MagicStart, Code: parameter, Processor: processor}, true
	case parameter >= int64(MagicStop):
		return Magic{Kind: MagicStop, Code: parameter, Processor: processor}, true
	}
	return Magic{}, false
}

// SimulationExit - таргет завершился штатно.
type SimulationExit struct {
	Processor ProcessorID `msgpack:"processor"`
}

func (SimulationExit) StopKind() StopKind { return StopSimulationExit }

// Crash - сработало зарегистрированное исключение.
type Crash struct {
	Fault     Fault       `msgpack:"fault"`
	Processor ProcessorID `msgpack:"processor"`
}

func (Crash) StopKind() StopKind { return StopCrash }

// TimeOut - бюджет времени кампании исчерпан без остановки.
type TimeOut struct{}

func (TimeOut) StopKind() StopKind { return StopTimeOut }

// Error - невосстановимая внутренняя ошибка, сессия завершается.
type Error struct {
	Message   string      `msgpack:"message"`
	Processor ProcessorID `msgpack:"processor"`
}

func (Error) StopKind() StopKind { return StopError }
