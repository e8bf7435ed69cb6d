package runners

import "fmt"

type EventKind int

const (
	// Started is sent before a new interpreter is constructed.
	Started EventKind = iota + 1
	// Paused is sent when the program waits for input. The interpreter is kept for resuming.
	Paused
	// Stopped is sent when a run ends, normally or with an error, or is discarded for a restart.
	Stopped
	// Continued is sent when a paused run resumes.
	Continued
	// Interrupted is sent when a live run is halted on request.
	Interrupted
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Continued:
		return "continued"
	case Interrupted:
		return "interrupted"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

type Event struct {
	Kind EventKind
	// Err is ErrNoInput for Paused, the program error for an abnormal Stopped, nil otherwise.
	Err error
}

func (e Event) String() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}
