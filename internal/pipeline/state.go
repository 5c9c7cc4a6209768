package pipeline

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// State is a stage of report generation.
type State string

// Generation states.
const (
	StateIdle      State = "idle"
	StateComputing State = "computing"
	StateCompiled  State = "compiled"
	StateExported  State = "exported"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool {
	return s == StateExported || s == StateFailed
}

var allowed = map[State][]State{
	StateIdle:      {StateComputing},
	StateComputing: {StateCompiled},
	StateCompiled:  {StateExported},
}

// Transition records one state change.
// Elapsed is the time spent in From.
type Transition struct {
	From    State         `json:"from"`
	To      State         `json:"to"`
	At      time.Time     `json:"at"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Reason  string        `json:"reason,omitempty"`
}

// Observer is notified of every transition.
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

// OnTransition implements Observer.
func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// Machine tracks a single generation. Failed and Exported are terminal.
type Machine struct {
	mu       sync.Mutex
	state    State
	entered  time.Time
	reason   string
	history  []Transition
	observer Observer
	now      func() time.Time
}

// NewMachine returns a machine in Idle. obs may be nil.
func NewMachine(obs Observer) *Machine {
	m := &Machine{state: StateIdle, observer: obs, now: time.Now}
	m.entered = m.now()
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reason returns the failure reason, if any.
func (m *Machine) Reason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reason
}

// History returns a copy of the recorded transitions.
func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transition(nil), m.history...)
}

// Advance moves to the next non-failure state.
func (m *Machine) Advance(to State) error {
	m.mu.Lock()
	ok := false
	for _, s := range allowed[m.state] {
		if s == to {
			ok = true
			break
		}
	}
	if !ok {
		from := m.state
		m.mu.Unlock()
		return eris.Errorf("pipeline: invalid transition %s -> %s", from, to)
	}
	t := m.record(to, "")
	m.mu.Unlock()

	m.notify(t)
	return nil
}

// Fail moves to Failed from any non-terminal state.
func (m *Machine) Fail(reason string) error {
	m.mu.Lock()
	if m.state.Terminal() {
		from := m.state
		m.mu.Unlock()
		return eris.Errorf("pipeline: cannot fail from terminal state %s", from)
	}
	m.reason = reason
	t := m.record(StateFailed, reason)
	m.mu.Unlock()

	m.notify(t)
	return nil
}

func (m *Machine) record(to State, reason string) Transition {
	now := m.now()
	t := Transition{From: m.state, To: to, At: now, Elapsed: now.Sub(m.entered), Reason: reason}
	m.history = append(m.history, t)
	m.state = to
	m.entered = now
	return t
}

func (m *Machine) notify(t Transition) {
	if m.observer != nil {
		m.observer.OnTransition(t)
	}
}
