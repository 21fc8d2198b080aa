package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRegistry(t *testing.T) {
	ctrl := &fakeControl{}
	m := New(ctrl)
	h := Register(m)

	// коллбек хоста доходит до своего инстанса
	DispatchMagicInstruction(h, 0, 2)
	require.Len(t, ctrl.breaks, 1)

	otherCtrl := &fakeControl{}
	other := Register(New(otherCtrl))
	assert.NotEqual(t, h, other)

	// после снятия с реестра коллбеки с этим хендлом - no-op
	Unregister(h)
	DispatchMagicInstruction(h, 0, 2)
	DispatchException(h, 0, -1)
	DispatchTimeout(h)
	DispatchSimulationStopped(h)
	assert.Len(t, ctrl.breaks, 1)
	assert.Zero(t, ctrl.quitCalls)

	Unregister(other)
}
