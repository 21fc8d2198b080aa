// Package components - внутренние подсистемы модуля: детектор крашей и
// таймаутов и трассировщик исполнения. Обе получают одинаковые lifecycle
// хуки от цикла модуля.
package components

import (
	"time"

	"simfuzz/entities"
	"simfuzz/infra/utils/logger"
	"simfuzz/simulator"

	"github.com/emirpasic/gods/sets/hashset"
)

// Detector - классифицирует сбои: следит за зарегистрированными
// исключениями и бюджетом времени итерации
type Detector struct {
	ctrl simulator.Control

	// интересующие нас исключения; остальные не считаются крашем
	faults  *hashset.Set
	timeout time.Duration

	stopReason entities.StopReason
}

func NewDetector(ctrl simulator.Control) *Detector {
	return &Detector{
		ctrl:   ctrl,
		faults: hashset.New(),
	}
}

// OnInitialize - настраивается из конфигурации кампании
func (d *Detector) OnInitialize(input *entities.InputConfig, output entities.OutputConfig) (entities.OutputConfig, error) {
	for _, fault := range input.Faults {
		d.OnAddFault(fault)
	}
	d.timeout = input.Timeout()
	logger.Infof("detector initialized: %d faults, timeout %v", d.faults.Size(), d.timeout)
	return output, nil
}

func (d *Detector) OnAddFault(fault entities.Fault) {
	d.faults.Add(fault)
	logger.Infof("registered fault %d", fault)
}

// Timeout - бюджет одной итерации; хост заводит по нему свой таймер
func (d *Detector) Timeout() time.Duration {
	return d.timeout
}

// OnException - событие исключения от хоста. Незарегистрированные коды
// не прерывают исполнение.
func (d *Detector) OnException(processor entities.ProcessorID, fault entities.Fault) {
	if !d.faults.Contains(fault) {
		logger.Debugf("ignoring unregistered fault %d on processor %d", fault, processor)
		return
	}
	d.stopReason = entities.Crash{Fault: fault, Processor: processor}
	crashesDetected.Inc()
	d.ctrl.Break("crash")
}

// OnTimeout - таймер хоста дотикал до бюджета итерации
func (d *Detector) OnTimeout() {
	d.stopReason = entities.TimeOut{}
	timeoutsDetected.Inc()
	d.ctrl.Break("timeout")
}

// OnSimulationExit - таргет завершился сам
func (d *Detector) OnSimulationExit(processor entities.ProcessorID) {
	d.stopReason = entities.SimulationExit{Processor: processor}
	d.ctrl.Break("simulation exit")
}

// StopReason - причина, записанная детектором для текущей остановки,
// или nil. Имеет приоритет над причиной самого модуля.
func (d *Detector) StopReason() entities.StopReason {
	return d.stopReason
}

func (d *Detector) OnStart() error { return nil }

func (d *Detector) PreFirstRun() error { return nil }

// OnReady - таргет откачен к снапшоту, прошлые причины больше не актуальны
func (d *Detector) OnReady() error {
	d.stopReason = nil
	return nil
}

func (d *Detector) OnRun() error {
	d.stopReason = nil
	return nil
}

func (d *Detector) OnStopped(reason entities.StopReason) error {
	logger.Debugf("detector observed stop: %v", reason)
	return nil
}

func (d *Detector) OnExit() error { return nil }
