// Package module - привилегированная сторона протокола, встраивается в
// хост симуляции. Ведет цикл reset/run, владеет реестром процессоров,
// снапшотом и классификацией причин остановки.
package module

import (
	"fmt"

	"simfuzz/core/module/components"
	"simfuzz/core/protocol"
	"simfuzz/entities"
	"simfuzz/infra/utils/logger"
	"simfuzz/simulator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ABI харнесса: адрес буфера приходит в rsi, размер в rdi; туда же
// пишется длина тест-кейса, а Magic Stop оставляет результат в rsi
const (
	bufferAddressRegister = "rsi"
	bufferSizeRegister    = "rdi"
	inputSizeRegister     = "rdi"
	stopValueRegister     = "rsi"
)

var (
	// ErrExited - сессия завершена по Exit; не ошибка, а сигнал раскрутки
	ErrExited = errors.New("session exited")
	// ErrMissingStopReason - остановка без причины, нарушение инварианта.
	// Таргет не может остановиться "просто так", это баг, не состояние.
	ErrMissingStopReason = errors.New("simulation stopped without a stop reason")
)

type Module struct {
	machine  *protocol.Machine
	endpoint *protocol.ModuleEndpoint

	ctrl     simulator.Control
	detector *components.Detector
	tracer   *components.Tracer

	processors map[entities.ProcessorID]simulator.Processor

	// причина, записанная коллбеком магической инструкции до остановки
	stopReason entities.StopReason

	iterations         uint64
	bufferAddress      uint64
	bufferSize         uint64
	lastStartProcessor entities.ProcessorID

	sessionID    uuid.UUID
	snapshotName string
}

func New(ctrl simulator.Control) *Module {
	sessionID := uuid.New()
	return &Module{
		machine:            protocol.NewMachine(),
		ctrl:               ctrl,
		detector:           components.NewDetector(ctrl),
		tracer:             components.NewTracer(),
		processors:         make(map[entities.ProcessorID]simulator.Processor),
		lastStartProcessor: -1,
		sessionID:          sessionID,
		snapshotName:       fmt.Sprintf("origin-%s", sessionID),
	}
}

// OnAddChannels - хост отдает модулю канал до клиента. Должно случиться
// до OnStart.
func (m *Module) OnAddChannels(conn protocol.Conn) {
	m.endpoint = protocol.NewModuleEndpoint(conn)
	logger.Info("module channels installed")
}

// OnAddProcessor - регистрирует процессор; в течение сессии процессоры
// не удаляются
func (m *Module) OnAddProcessor(processor simulator.Processor) {
	m.processors[processor.Number()] = processor
	logger.Infof("added processor #%d", processor.Number())
}

// OnAddFault - регистрирует интересующее исключение
func (m *Module) OnAddFault(fault entities.Fault) {
	m.detector.OnAddFault(fault)
}

// Detector - доступ хоста к детектору (бюджет таймера и тд)
func (m *Module) Detector() *components.Detector {
	return m.detector
}

// Tracer - доступ хоста к трассировщику (коллбек инструкций)
func (m *Module) Tracer() *components.Tracer {
	return m.tracer
}

// OnStart - стартует сессию: принимает Initialize, настраивает подсистемы
// и, если run, сразу возобновляет симуляцию до первого Magic Start
func (m *Module) OnStart(run bool) {
	if err := m.start(run); err != nil {
		m.fail(err)
	}
}

func (m *Module) start(run bool) error {
	if m.endpoint == nil {
		return errors.New("channels are not installed, call add-channels first")
	}
	if err := m.initialize(); err != nil {
		return err
	}

	if err := m.detector.OnStart(); err != nil {
		return err
	}
	if err := m.tracer.OnStart(); err != nil {
		return err
	}

	if run {
		logger.Info("starting simulation")
		m.ctrl.Continue()
	} else {
		logger.Info("module ready, continue to the harness to begin fuzzing")
	}
	return nil
}

func (m *Module) initialize() error {
	msg, err := m.recvMsg()
	if err != nil {
		return err
	}
	initMsg, ok := msg.(protocol.Initialize)
	if !ok {
		return errors.Errorf("unexpected message %s, expected Initialize", msg.Kind())
	}

	// логгер процесса настраивается ровно один раз, на первом Initialize
	logger.Setup(initMsg.Config.LogLevel)

	output := entities.OutputConfig{}
	if output, err = m.detector.OnInitialize(&initMsg.Config, output); err != nil {
		return errors.WithMessage(err, "detector initialization failed")
	}
	if output, err = m.tracer.OnInitialize(&initMsg.Config, output); err != nil {
		return errors.WithMessage(err, "tracer initialization failed")
	}

	logger.Info("sending initialized message")
	return m.sendMsg(protocol.Initialized{Config: output})
}

// sendMsg - сначала переход машины состояний, потом отправка: незаконная
// отправка не должна коснуться транспорта
func (m *Module) sendMsg(msg protocol.Message) error {
	if err := m.machine.Consume(msg.Kind()); err != nil {
		return err
	}
	return m.endpoint.Send(msg)
}

// recvMsg - принимает и проводит через машину состояний. Exit обходит
// машину: подсистемы сносятся и процесс хоста завершается немедленно.
func (m *Module) recvMsg() (protocol.Message, error) {
	msg, err := m.endpoint.Recv()
	if err != nil {
		return nil, err
	}
	logger.Debugf("received client message %s", msg.Kind())

	if msg.Kind() == protocol.KindExit {
		logger.Info("received Exit message, exiting and quitting")
		m.teardown()
		m.ctrl.Quit(0)
		return nil, ErrExited
	}

	if err := m.machine.Consume(msg.Kind()); err != nil {
		return nil, err
	}
	return msg, nil
}

// resetAndRun - один цикл отката и запуска: Reset -> восстановление
// снапшота -> Ready -> Run -> вход в память таргета -> продолжение
// симуляции. Завершение запуска придет асинхронно коллбеком остановки.
func (m *Module) resetAndRun(processorNumber entities.ProcessorID) error {
	msg, err := m.recvMsg()
	if err != nil {
		return err
	}
	if _, ok := msg.(protocol.Reset); !ok {
		return errors.Errorf("unexpected message %s, expected Reset", msg.Kind())
	}

	if err := m.ctrl.RestoreSnapshot(m.snapshotName); err != nil {
		return errors.WithMessage(err, "failed to restore baseline snapshot")
	}
	m.ctrl.DiscardFuture()

	if err := m.detector.OnReady(); err != nil {
		return err
	}
	if err := m.tracer.OnReady(); err != nil {
		return err
	}

	if err := m.sendMsg(protocol.Ready{}); err != nil {
		return err
	}

	msg, err = m.recvMsg()
	if err != nil {
		return err
	}
	runMsg, ok := msg.(protocol.Run)
	if !ok {
		return errors.Errorf("unexpected message %s, expected Run", msg.Kind())
	}

	// вход длиннее договоренного буфера молча обрезается: харнесс выделил
	// ровно bufferSize байт
	input := runMsg.Input
	if uint64(len(input)) > m.bufferSize {
		input = input[:m.bufferSize]
	}

	processor, exists := m.processors[processorNumber]
	if !exists {
		return errors.Errorf("no processor number %d", processorNumber)
	}
	if err := processor.WriteBytes(m.bufferAddress, input); err != nil {
		return errors.WithMessage(err, "failed to write testcase to guest memory")
	}
	if err := processor.WriteRegister(inputSizeRegister, uint64(len(input))); err != nil {
		return errors.WithMessagef(err, "failed to write testcase size to %s", inputSizeRegister)
	}

	m.stopReason = nil
	m.ctrl.Continue()
	return nil
}

// OnSimulationStopped - коллбек остановки симуляции: классифицирует
// причину, отчитывается клиенту и заводит следующую итерацию
func (m *Module) OnSimulationStopped() {
	if err := m.onSimulationStopped(); err != nil {
		m.fail(err)
	}
}

func (m *Module) onSimulationStopped() error {
	logger.Debugf("module got stopped simulation with reason %v", m.stopReason)

	// причина детектора важнее локальной: детектор знает про краш/таймаут
	// больше, чем магический маркер
	reason := m.detector.StopReason()
	if reason == nil {
		reason = m.stopReason
	}
	if reason == nil {
		return ErrMissingStopReason
	}

	if err := m.detector.OnStopped(reason); err != nil {
		return err
	}
	if err := m.tracer.OnStopped(reason); err != nil {
		return err
	}
	stopReasonTotal.WithLabelValues(reason.StopKind().String()).Inc()

	switch r := reason.(type) {
	case entities.Magic:
		if r.Kind == entities.MagicStart {
			return m.onMagicStart(r)
		}
		return m.onMagicStop(r)
	case entities.SimulationExit:
		if err := m.sendMsg(protocol.Stopped{Reason: r}); err != nil {
			return err
		}
		return m.resetAndRun(r.Processor)
	case entities.Crash:
		if err := m.sendMsg(protocol.Stopped{Reason: r}); err != nil {
			return err
		}
		return m.resetAndRun(r.Processor)
	case entities.TimeOut:
		if err := m.sendMsg(protocol.Stopped{Reason: r}); err != nil {
			return err
		}
		return m.resetAndRun(m.lastStartProcessor)
	case entities.Error:
		logger.ErrorMessage("module error on processor %d: %s", r.Processor, r.Message)
		m.teardown()
		m.ctrl.Quit(1)
		return ErrExited
	}
	return errors.Errorf("unknown stop reason %T", reason)
}

func (m *Module) onMagicStart(magic entities.Magic) error {
	m.iterations++
	iterationsTotal.Inc()
	m.lastStartProcessor = magic.Processor

	if m.iterations == 1 {
		// первый вход в харнесс: договариваемся о буфере, снимаем
		// базовый снапшот и закручиваем цикл без участия клиента
		processor, exists := m.processors[magic.Processor]
		if !exists {
			return errors.Errorf("no processor number %d", magic.Processor)
		}
		var err error
		if m.bufferAddress, err = processor.ReadRegister(bufferAddressRegister); err != nil {
			return errors.WithMessagef(err, "failed to read buffer address from %s", bufferAddressRegister)
		}
		if m.bufferSize, err = processor.ReadRegister(bufferSizeRegister); err != nil {
			return errors.WithMessagef(err, "failed to read buffer size from %s", bufferSizeRegister)
		}
		logger.Infof("negotiated input buffer: address=%#x size=%d", m.bufferAddress, m.bufferSize)

		if err := m.ctrl.SaveSnapshot(m.snapshotName, simulator.SnapshotIDUser|simulator.SnapshotPersistent); err != nil {
			return errors.WithMessage(err, "failed to save baseline snapshot")
		}
		snapshotSaves.Inc()

		if err := m.detector.PreFirstRun(); err != nil {
			return err
		}
		if err := m.tracer.PreFirstRun(); err != nil {
			return err
		}
		return m.resetAndRun(magic.Processor)
	}

	// таргет сам вернулся на вход харнесса, полный откат не нужен
	if err := m.detector.OnRun(); err != nil {
		return err
	}
	if err := m.tracer.OnRun(); err != nil {
		return err
	}
	m.stopReason = nil
	m.ctrl.Continue()
	return nil
}

func (m *Module) onMagicStop(magic entities.Magic) error {
	processor, exists := m.processors[magic.Processor]
	if !exists {
		return errors.Errorf("no processor number %d", magic.Processor)
	}
	// обогащаем причину значением регистра результата
	stopValue, err := processor.ReadRegister(stopValueRegister)
	if err != nil {
		return errors.WithMessagef(err, "failed to read stop value from %s", stopValueRegister)
	}
	magic.Value = &stopValue

	if err := m.sendMsg(protocol.Stopped{Reason: magic}); err != nil {
		return err
	}
	return m.resetAndRun(magic.Processor)
}

// OnMagicInstruction - коллбек магической инструкции: только записывает
// причину и просит хост остановиться; классификация будет в коллбеке
// остановки
func (m *Module) OnMagicInstruction(processor entities.ProcessorID, parameter int64) {
	magic, ok := entities.MagicFromParameter(parameter, processor)
	if !ok {
		return
	}
	m.stopReason = magic
	m.ctrl.Break("on_magic_instruction")
}

// OnException - событие исключения от хоста, уходит детектору
func (m *Module) OnException(processor entities.ProcessorID, fault entities.Fault) {
	m.detector.OnException(processor, fault)
}

// OnTimeout - таймер бюджета итерации от хоста
func (m *Module) OnTimeout() {
	m.detector.OnTimeout()
}

// OnSimulationExit - штатное завершение таргета
func (m *Module) OnSimulationExit(processor entities.ProcessorID) {
	m.detector.OnSimulationExit(processor)
}

func (m *Module) teardown() {
	if err := m.detector.OnExit(); err != nil {
		logger.Errorf(err, "detector teardown failed")
	}
	if err := m.tracer.OnExit(); err != nil {
		logger.Errorf(err, "tracer teardown failed")
	}
}

// fail - невосстановимая ошибка модуля: сессию нельзя продолжать,
// сносимся с ненулевым кодом
func (m *Module) fail(err error) {
	if errors.Is(err, ErrExited) {
		return
	}
	logger.Errorf(err, "fatal module error, terminating session")
	m.teardown()
	m.ctrl.Quit(1)
}
