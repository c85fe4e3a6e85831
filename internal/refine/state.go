package refine

import "fmt"

// State is the refinement loop's position within one iteration. SUCCESS and
// EXHAUSTED are terminal.
type State string

const (
	StateGenerating State = "GENERATING"
	StateCompiling  State = "COMPILING"
	StateExtracting State = "EXTRACTING"
	StateDeciding   State = "DECIDING"
	StateSucceeded  State = "SUCCESS"
	StateExhausted  State = "EXHAUSTED"
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateExhausted
}

func isValidTransition(from, to State) bool {
	switch from {
	case StateGenerating:
		return to == StateCompiling
	case StateCompiling:
		return to == StateExtracting || to == StateDeciding
	case StateExtracting:
		return to == StateDeciding
	case StateDeciding:
		return to == StateGenerating || to == StateSucceeded || to == StateExhausted
	default:
		return false
	}
}

func (d *Driver) transition(next State, iteration int, message string) error {
	if !isValidTransition(d.state, next) {
		return fmt.Errorf("invalid transition %s -> %s", d.state, next)
	}
	d.state = next
	d.emit(iteration, next, message)
	return nil
}
