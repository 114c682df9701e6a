package cropper

// Machine holds the current state and selection of one interactive session.
// It is not safe for concurrent use; the UI runtime drives it from its single
// update callback.
type Machine struct {
	env   Env
	state State
	sel   Selection
}

// NewMachine returns a machine in the Idle state.
func NewMachine(env Env) *Machine {
	return &Machine{env: env, state: Idle{}}
}

// Handle applies ev. An invalid event leaves the machine untouched and is
// returned as an *InvalidEventError.
func (m *Machine) Handle(ev Event) error {
	next, sel, err := Transition(m.env, m.state, m.sel, ev)
	if err != nil {
		return err
	}
	m.state, m.sel = next, sel
	return nil
}

func (m *Machine) State() State         { return m.state }
func (m *Machine) Selection() Selection { return m.sel }
func (m *Machine) Env() Env             { return m.env }
