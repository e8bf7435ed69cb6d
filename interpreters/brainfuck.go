package interpreters

import "fmt"

// Brainfuck is the reversible interpreter used by the visualiser.
// Every step records the state it overwrites, so it can be undone with Back.
type Brainfuck struct {
	code        []rune
	brackets    map[int]int
	io          IO
	tape        []byte
	tapePointer int
	codePointer int
	output      []rune
	count       int
	past        *history
}

var _ Reversible = new(Brainfuck)

type BrainfuckOption func(*Brainfuck)

// WithHistoryLimit bounds how many steps can be undone.
func WithHistoryLimit(n int) BrainfuckOption {
	return func(b *Brainfuck) {
		b.past = newHistory(n)
	}
}

func NewBrainfuck(code string, io IO, options ...BrainfuckOption) (*Brainfuck, error) {
	runes := []rune(code)
	brackets, err := MatchBrackets(runes)
	if err != nil {
		return nil, err
	}
	if io == nil {
		io = NopIO{}
	}
	ret := &Brainfuck{
		code:        runes,
		brackets:    brackets,
		io:          io,
		tape:        []byte{0},
		codePointer: -1,
		past:        newHistory(DefaultHistoryLimit),
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

func isBrainfuckCommand(r rune) bool {
	switch r {
	case '[', ']', '>', '<', '+', '-', ',', '.':
		return true
	}
	return false
}

// Step executes the next instruction. A step that fails leaves the state and
// the undo history untouched.
func (b *Brainfuck) Step() (Span, error) {
	next := b.codePointer + 1
	for next < len(b.code) && !isBrainfuckCommand(b.code[next]) {
		next++
	}
	if next >= len(b.code) {
		return Span{}, ErrExecutionEnded
	}
	span := Span{Start: next, Length: 1}

	var input rune
	switch b.code[next] {
	case '<':
		if b.tapePointer == 0 {
			return Span{}, runtimeError(InvalidTapeCell, span)
		}
	case ',':
		r, ok := b.io.NextInput()
		if !ok {
			return Span{}, ErrNoInput
		}
		input = r
	}

	b.past.push(historyEntry{
		codePointer: b.codePointer,
		tapePointer: b.tapePointer,
		cell:        b.tape[b.tapePointer],
		outputLen:   len(b.output),
	})
	b.codePointer = next
	b.count++

	switch b.code[next] {

	case '[':
		if b.tape[b.tapePointer] == 0 {
			b.codePointer = b.brackets[next]
		}

	case ']':
		if b.tape[b.tapePointer] != 0 {
			b.codePointer = b.brackets[next]
		}

	case '>':
		b.tapePointer++
		if b.tapePointer >= len(b.tape) {
			b.tape = append(b.tape, 0)
		}

	case '<':
		b.tapePointer--

	case '+':
		b.tape[b.tapePointer]++

	case '-':
		b.tape[b.tapePointer]--

	case ',':
		b.tape[b.tapePointer] = byte(input)

	case '.':
		b.output = append(b.output, rune(b.tape[b.tapePointer]))
		b.io.EmitOutput(string(b.output))

	}

	return span, nil
}

func (b *Brainfuck) Back() (Span, error) {
	e, ok := b.past.pop()
	if !ok {
		return Span{}, ErrNoPreviousExecution
	}
	if b.count == 0 {
		panic(fmt.Errorf("history not empty but instruction count is 0"))
	}

	if b.codePointer >= 0 && b.code[b.codePointer] == ',' {
		b.io.UndoInput()
	}

	b.codePointer = e.codePointer
	b.tapePointer = e.tapePointer
	if e.outputLen != len(b.output) {
		b.output = b.output[:len(b.output)-1]
		b.io.EmitOutput(string(b.output))
	}
	b.tape[b.tapePointer] = e.cell
	b.count--

	if b.codePointer < 0 {
		return Span{}, nil
	}
	return Span{Start: b.codePointer, Length: 1}, nil
}

func (b *Brainfuck) Run() (string, error) {
	for {
		if _, err := b.Step(); err == ErrExecutionEnded {
			break
		} else if err != nil {
			return string(b.output), err
		}
	}
	return string(b.output), nil
}

// Tape returns a copy of the tape. Its length is a high-water mark: undoing a '>' does not shrink it.
func (b *Brainfuck) Tape() []byte {
	ret := make([]byte, len(b.tape))
	copy(ret, b.tape)
	return ret
}

func (b *Brainfuck) TapePointer() int {
	return b.tapePointer
}

func (b *Brainfuck) InstructionCount() int {
	return b.count
}

func (b *Brainfuck) Output() string {
	return string(b.output)
}

// CodePointer is the index of the current instruction, or -1 before the first step.
func (b *Brainfuck) CodePointer() int {
	return b.codePointer
}

// Undoable reports how many steps Back can still undo.
func (b *Brainfuck) Undoable() int {
	return b.past.len()
}
