package visualisers

import "github.com/reusee/esoide/interpreters"

// Snapshot is the visible state of a visualiser.
type Snapshot struct {
	Active           bool               `yaml:"active"`
	Running          bool               `yaml:"running"`
	Position         interpreters.Span  `yaml:"position"`
	Tape             []byte             `yaml:"tape,flow"`
	TapePointer      int                `yaml:"tape_pointer"`
	Output           string             `yaml:"output"`
	InstructionCount int                `yaml:"instruction_count"`
	InputSpan        interpreters.Span  `yaml:"input_span"`
	Status           string             `yaml:"status"`
	Error            string             `yaml:"error,omitempty"`
	ErrorLocation    *interpreters.Span `yaml:"error_location,omitempty"`
}

// View renders snapshots. It is called without the visualiser locked.
type View interface {
	Render(Snapshot)
}
