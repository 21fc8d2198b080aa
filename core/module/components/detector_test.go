package components

import (
	"testing"
	"time"

	"simfuzz/entities"
	"simfuzz/simulator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type breakRecorder struct {
	breaks []string
}

func (r *breakRecorder) Break(reason string) { r.breaks = append(r.breaks, reason) }
func (r *breakRecorder) Continue()           {}
func (r *breakRecorder) SaveSnapshot(name string, flags simulator.SnapshotFlags) error {
	return nil
}
func (r *breakRecorder) RestoreSnapshot(name string) error { return nil }
func (r *breakRecorder) DiscardFuture()                    {}
func (r *breakRecorder) Quit(code int)                     {}

func TestDetectorFaultClassification(t *testing.T) {
	ctrl := &breakRecorder{}
	d := NewDetector(ctrl)

	_, err := d.OnInitialize(&entities.InputConfig{
		Faults:         []entities.Fault{-1, 13},
		TimeoutSeconds: 1.5,
	}, entities.OutputConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d.Timeout())

	t.Run("unregistered fault ignored", func(t *testing.T) {
		d.OnException(0, 14)
		assert.Nil(t, d.StopReason())
		assert.Empty(t, ctrl.breaks)
	})

	t.Run("registered fault is a crash", func(t *testing.T) {
		d.OnException(1, 13)
		assert.Equal(t, entities.Crash{Fault: 13, Processor: 1}, d.StopReason())
		assert.Len(t, ctrl.breaks, 1)
	})

	t.Run("ready clears the reason", func(t *testing.T) {
		require.NoError(t, d.OnReady())
		assert.Nil(t, d.StopReason())
	})

	t.Run("fault added mid-session", func(t *testing.T) {
		d.OnException(0, 6)
		assert.Nil(t, d.StopReason())

		d.OnAddFault(6)
		d.OnException(0, 6)
		assert.Equal(t, entities.Crash{Fault: 6, Processor: 0}, d.StopReason())
	})
}

func TestDetectorTimeoutAndExit(t *testing.T) {
	ctrl := &breakRecorder{}
	d := NewDetector(ctrl)

	d.OnTimeout()
	assert.Equal(t, entities.TimeOut{}, d.StopReason())

	require.NoError(t, d.OnRun())
	assert.Nil(t, d.StopReason())

	d.OnSimulationExit(2)
	assert.Equal(t, entities.SimulationExit{Processor: 2}, d.StopReason())
	assert.Len(t, ctrl.breaks, 2)
}
