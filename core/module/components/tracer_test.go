package components

import (
	"testing"

	"simfuzz/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerCoverageLayout(t *testing.T) {
	tr := NewTracer()
	output, err := tr.OnInitialize(&entities.InputConfig{}, entities.OutputConfig{})
	require.NoError(t, err)

	assert.NotEmpty(t, output.Coverage.ID)
	assert.Equal(t, uint32(entities.CovSize), output.Coverage.Size)

	// новая сессия получает новую shmem
	other, err := NewTracer().OnInitialize(&entities.InputConfig{}, entities.OutputConfig{})
	require.NoError(t, err)
	assert.NotEqual(t, output.Coverage.ID, other.Coverage.ID)
}

func TestTracerEdgeDeduplication(t *testing.T) {
	tr := NewTracer()

	trace := func(pcs ...uint64) {
		for _, pc := range pcs {
			tr.OnInstruction(0, pc)
		}
	}

	trace(0x1000, 0x1004, 0x1008)
	assert.Equal(t, uint64(3), tr.newEdges)

	// тот же путь второй раз не дает новых ребер
	require.NoError(t, tr.OnReady())
	trace(0x1000, 0x1004, 0x1008)
	assert.Equal(t, uint64(3), tr.newEdges)

	// ребро направленное: обратный порядок это новый переход
	require.NoError(t, tr.OnReady())
	trace(0x1008, 0x1004)
	assert.Equal(t, uint64(5), tr.newEdges)
}
