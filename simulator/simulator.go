// Package simulator - интерфейсы хоста полносистемной симуляции, которые
// потребляет модуль. Сама эмуляция, хранение снапшотов и доступ к железу -
// зона ответственности хоста, здесь только контракт.
package simulator

import "simfuzz/entities"

// Processor - один симулируемый процессор: регистры и память гостя
type Processor interface {
	Number() entities.ProcessorID
	ReadRegister(name string) (uint64, error)
	WriteRegister(name string, value uint64) error
	// WriteBytes - пишет буфер по гостевому адресу
	WriteBytes(addr uint64, data []byte) error
}

type SnapshotFlags uint8

const (
	SnapshotIDUser SnapshotFlags = 1 << iota
	SnapshotPersistent
)

// Control - управление исполнением и снапшотами со стороны модуля
type Control interface {
	// Break - просит хост остановить симуляцию; остановка придет позже
	// коллбеком simulation-stopped
	Break(reason string)
	// Continue - возобновляет исполнение после возврата из коллбека
	Continue()
	SaveSnapshot(name string, flags SnapshotFlags) error
	RestoreSnapshot(name string) error
	// DiscardFuture - выбрасывает спекулятивное состояние после отката
	DiscardFuture()
	// Quit - завершает процесс хоста; после вызова итераций больше не будет
	Quit(code int)
}
