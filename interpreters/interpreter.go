package interpreters

// Span is a range of source characters, in runes.
type Span struct {
	Start  int
	Length int
}

// IO is the collaborator an interpreter reads input from and writes output to.
type IO interface {
	// NextInput returns the next decoded input token, or false if none is buffered yet.
	NextInput() (rune, bool)
	// UndoInput rewinds the input cursor by one token.
	UndoInput()
	// EmitOutput receives output. The reversible interpreter passes its whole accumulated
	// output, the fast interpreter passes only the newly written character.
	EmitOutput(text string)
}

type Interpreter interface {
	// Step executes one instruction and returns the source span it came from.
	Step() (Span, error)
	// Run steps until the program ends and returns the output.
	Run() (string, error)
}

type Reversible interface {
	Interpreter
	// Back undoes the most recent instruction and returns the new current position.
	Back() (Span, error)
	Tape() []byte
	TapePointer() int
	InstructionCount() int
	Output() string
}

// NopIO drops output and never has input.
type NopIO struct{}

var _ IO = NopIO{}

func (NopIO) NextInput() (rune, bool) {
	return 0, false
}

func (NopIO) UndoInput() {}

func (NopIO) EmitOutput(string) {}
