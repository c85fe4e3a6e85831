package refine

import "time"

// Event is one state change in a run, for progress display and logs.
type Event struct {
	RunID     string    `json:"run_id"`
	Iteration int       `json:"iteration"`
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

func (e Event) Terminal() bool {
	return e.State.Terminal()
}

func (d *Driver) emit(iteration int, state State, message string) {
	if d.Events == nil {
		return
	}
	d.Events(Event{
		RunID:     d.runID,
		Iteration: iteration,
		State:     state,
		Message:   message,
		At:        d.now().UTC(),
	})
}
