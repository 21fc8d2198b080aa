package components

import (
	"encoding/binary"
	"time"

	"simfuzz/entities"
	"simfuzz/infra/utils/hashing"
	"simfuzz/infra/utils/logger"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"github.com/influxdata/tdigest"
)

const (
	// bloom ~ 2mb
	edgeCountExpected      = 10e6
	bloomFalsePositiveRate = 10e-4 // 0.1%
)

// Tracer - собирает трассу исполнения: ребра покрытия, длительности
// итераций. Раскладку карты покрытия отдает клиенту в OutputConfig.
type Tracer struct {
	shmem entities.CoverageShmem

	// дедупликация ребер за всю сессию
	seen    *bloom.BloomFilter
	edgeBuf []byte
	// предыдущий адрес для ребра prev->pc, как в afl
	prevPC   uint64
	newEdges uint64

	durations *tdigest.TDigest
	runStart  time.Time
}

func NewTracer() *Tracer {
	return &Tracer{
		seen:      bloom.NewWithEstimates(edgeCountExpected, bloomFalsePositiveRate),
		edgeBuf:   make([]byte, 16),
		durations: tdigest.New(),
	}
}

// OnInitialize - выделяет описание карты покрытия и сообщает его клиенту
func (t *Tracer) OnInitialize(input *entities.InputConfig, output entities.OutputConfig) (entities.OutputConfig, error) {
	t.shmem = entities.CoverageShmem{
		ID:   uuid.NewString(),
		Size: entities.CovSize,
	}
	output.Coverage = t.shmem
	logger.Infof("tracer initialized: coverage shmem %s (%d bytes)", t.shmem.ID, t.shmem.Size)
	return output, nil
}

// OnInstruction - коллбек трассировки: одна исполненная инструкция
func (t *Tracer) OnInstruction(processor entities.ProcessorID, pc uint64) {
	binary.BigEndian.PutUint64(t.edgeBuf[:8], t.prevPC>>1)
	binary.BigEndian.PutUint64(t.edgeBuf[8:], pc)
	t.prevPC = pc

	edge := make([]byte, 8)
	binary.BigEndian.PutUint64(edge, hashing.MakeHash(t.edgeBuf))
	if t.seen.Test(edge) {
		return
	}
	t.seen.Add(edge)
	t.newEdges++
	coverageEdges.Inc()
}

func (t *Tracer) OnAddFault(fault entities.Fault) {}

func (t *Tracer) OnStart() error { return nil }

func (t *Tracer) PreFirstRun() error {
	t.runStart = time.Now()
	return nil
}

func (t *Tracer) OnReady() error {
	t.prevPC = 0
	return nil
}

func (t *Tracer) OnRun() error {
	t.runStart = time.Now()
	return nil
}

func (t *Tracer) OnStopped(reason entities.StopReason) error {
	if t.runStart.IsZero() {
		return nil
	}
	elapsed := time.Since(t.runStart)
	t.durations.Add(elapsed.Seconds(), 1)
	runDuration.Observe(elapsed.Seconds())
	t.runStart = time.Time{}
	return nil
}

// OnExit - итоговая статистика сессии
func (t *Tracer) OnExit() error {
	logger.Infof(
		"tracer: %d new edges, run duration p50=%.4fs p99=%.4fs",
		t.newEdges,
		t.durations.Quantile(0.5),
		t.durations.Quantile(0.99),
	)
	return nil
}
