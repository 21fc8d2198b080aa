package module

import (
	"sync"

	"simfuzz/entities"
	"simfuzz/infra/utils/logger"
)

// Handle - непрозрачный идентификатор инстанса модуля для хостовых
// коллбеков. Хост оперирует только хендлами, не указателями: все
// обратные вызовы идут через реестр.
type Handle uint32

var (
	handlesMu  sync.RWMutex
	instances  = make(map[Handle]*Module)
	nextHandle Handle
)

// Register - кладет инстанс в реестр и выдает хендл для коллбеков хоста
func Register(m *Module) Handle {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	nextHandle++
	instances[nextHandle] = m
	return nextHandle
}

// Unregister - снимает инстанс с реестра; коллбеки с этим хендлом
// становятся no-op
func Unregister(h Handle) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(instances, h)
}

func lookup(h Handle) (*Module, bool) {
	handlesMu.RLock()
	defer handlesMu.RUnlock()
	m, ok := instances[h]
	return m, ok
}

// Диспетчеры хостовых коллбеков: хост знает только хендл и сигнатуру

func DispatchSimulationStopped(h Handle) {
	m, ok := lookup(h)
	if !ok {
		logger.ErrorMessage("simulation-stopped callback for unknown handle %d", h)
		return
	}
	m.OnSimulationStopped()
}

func DispatchMagicInstruction(h Handle, processor entities.ProcessorID, parameter int64) {
	m, ok := lookup(h)
	if !ok {
		logger.ErrorMessage("magic-instruction callback for unknown handle %d", h)
		return
	}
	m.OnMagicInstruction(processor, parameter)
}

func DispatchException(h Handle, processor entities.ProcessorID, fault entities.Fault) {
	m, ok := lookup(h)
	if !ok {
		logger.ErrorMessage("exception callback for unknown handle %d", h)
		return
	}
	m.OnException(processor, fault)
}

func DispatchTimeout(h Handle) {
	m, ok := lookup(h)
	if !ok {
		logger.ErrorMessage("timeout callback for unknown handle %d", h)
		return
	}
	m.OnTimeout()
}
