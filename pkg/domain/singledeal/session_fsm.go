package singledeal

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// States of the single-deal view.
const (
	StateIdle      = "idle"
	StateSelected  = "selected"
	StateAnalyzing = "analyzing"
	StateResult    = "result"
)

// Events accepted by the machine.
const (
	EventSelect  = "select"
	EventClear   = "clear"
	EventAnalyze = "analyze"
	EventSucceed = "succeed"
	EventFail    = "fail"
	EventReset   = "reset"
)

// MachineContext carries the guard the machine consults before analyzing.
type MachineContext struct {
	CanAnalyze func() bool
}

// Machine wraps the statekit interpreter for one view instance.
type Machine struct {
	interpreter *statekit.Interpreter[MachineContext]
}

// NewMachine builds a machine starting in idle. canAnalyze may be nil.
func NewMachine(canAnalyze func() bool) (*Machine, error) {
	if canAnalyze == nil {
		canAnalyze = func() bool { return true }
	}

	builder := statekit.NewMachine[MachineContext]("single-deal").
		WithInitial(StateIdle).
		WithContext(MachineContext{CanAnalyze: canAnalyze}).
		WithGuard("hasSelection", func(ctx MachineContext, e statekit.Event) bool {
			return ctx.CanAnalyze()
		})

	builder.State(StateIdle).
		On(EventSelect).Target(StateSelected).
		Done()

	builder.State(StateSelected).
		On(EventAnalyze).Target(StateAnalyzing).Guard("hasSelection").
		On(EventClear).Target(StateIdle).
		Done()

	builder.State(StateAnalyzing).
		On(EventSucceed).Target(StateResult).
		On(EventFail).Target(StateSelected).
		Done()

	builder.State(StateResult).
		On(EventReset).Target(StateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build single-deal machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Machine{interpreter: interpreter}, nil
}

// Send fires event and returns a TransitionError when the state did not
// change, either because the event is not valid here or a guard refused it.
func (m *Machine) Send(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() != before {
		return nil
	}
	return &TransitionError{Event: event, From: before}
}

// Current returns the current state.
func (m *Machine) Current() string {
	return string(m.interpreter.State().Value)
}
