package protocol

type State uint8

const (
	StateUninitialized State = iota
	StateHalfInitialized
	StateInitialized
	StateHalfReady
	StateReady
	StateRunning
	StateStopped
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateHalfInitialized:
		return "HalfInitialized"
	case StateInitialized:
		return "Initialized"
	case StateHalfReady:
		return "HalfReady"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateDone:
		return "Done"
	}
	return "Unknown"
}

// transitions - единственный источник правды для обеих сторон. Сторона
// двигает машину и на send и на recv одного и того же варианта, поэтому
// после каждого успешного обмена обе стороны оказываются в одном состоянии.
// Exit разрешен из любого неабсорбирующего состояния и ведет в Done.
var transitions = map[State]map[Kind]State{
	StateUninitialized: {
		KindInitialize: StateHalfInitialized,
	},
	StateHalfInitialized: {
		KindInitialized: StateInitialized,
	},
	StateInitialized: {
		KindReset: StateHalfReady,
	},
	StateStopped: {
		KindReset: StateHalfReady,
	},
	StateHalfReady: {
		KindReady: StateReady,
	},
	StateReady: {
		KindRun: StateRunning,
	},
	StateRunning: {
		KindStopped: StateStopped,
	},
	// Done абсорбирующее: дальше только снос процесса
}

// Machine - машина состояний одной стороны. Владеет ею ровно одна сторона,
// через процесс она никогда не передается.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{state: StateUninitialized}
}

// Consume - проводит переход по варианту сообщения, которое вот-вот уйдет
// или только что пришло. Недопустимый переход оставляет состояние как есть
// и возвращает ErrProtocolViolation.
func (m *Machine) Consume(k Kind) error {
	if k == KindExit && m.state != StateDone {
		m.state = StateDone
		return nil
	}
	next, ok := transitions[m.state][k]
	if !ok {
		return &ViolationError{State: m.state, Message: k}
	}
	m.state = next
	return nil
}

func (m *Machine) State() State {
	return m.state
}
