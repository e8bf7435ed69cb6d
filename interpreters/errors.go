package interpreters

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutionEnded is the normal termination signal: there is no instruction left to step.
	ErrExecutionEnded = errors.New("execution ended")
	// ErrNoPreviousExecution is returned by Back when there is nothing left to undo.
	ErrNoPreviousExecution = errors.New("no previous execution")
	// ErrNoInput is returned when an input instruction finds no buffered token. The step is rolled back and can be retried.
	ErrNoInput = errors.New("no input")

	ErrProgramSyntax  = errors.New("program syntax error")
	ErrProgramRuntime = errors.New("program runtime error")
)

type ErrorKind int

const (
	UnmatchedOpenParen ErrorKind = iota + 1
	UnmatchedCloseParen
	InvalidTapeCell
)

func (k ErrorKind) String() string {
	switch k {
	case UnmatchedOpenParen:
		return "Unmatched opening parentheses"
	case UnmatchedCloseParen:
		return "Unmatched closing parentheses"
	case InvalidTapeCell:
		return "Tape pointer out of bounds"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) IsSyntax() bool {
	return k == UnmatchedOpenParen || k == UnmatchedCloseParen
}

// ProgramError is a syntax or runtime fault in the program itself.
type ProgramError struct {
	Kind     ErrorKind
	Location Span
}

var _ error = new(ProgramError)

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s at location %d", e.Kind, e.Location.Start)
}

func (e *ProgramError) Is(target error) bool {
	switch target {
	case ErrProgramSyntax:
		return e.Kind.IsSyntax()
	case ErrProgramRuntime:
		return !e.Kind.IsSyntax()
	}
	return false
}

func syntaxError(kind ErrorKind, pos int) error {
	return &ProgramError{
		Kind:     kind,
		Location: Span{Start: pos, Length: 1},
	}
}

func runtimeError(kind ErrorKind, location Span) error {
	return &ProgramError{
		Kind:     kind,
		Location: location,
	}
}

// ErrNoInterpreter is reported when the active language has no interpreter of the requested kind.
var ErrNoInterpreter = errors.New("no interpreter for this file type")

// Describe returns the status text shown for err.
func Describe(err error) string {
	var programErr *ProgramError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExecutionEnded):
		return "Execution finished"
	case errors.Is(err, ErrNoPreviousExecution):
		return "No previous execution"
	case errors.Is(err, ErrNoInput):
		return "Enter input"
	case errors.Is(err, ErrNoInterpreter):
		return "No interpreter for this file type"
	case errors.As(err, &programErr):
		return fmt.Sprintf("%s at location %d", programErr.Kind, programErr.Location.Start)
	}
	return err.Error()
}
