package interpreters

// FastTapeSize is the fixed tape length of FastBrainfuck.
const FastTapeSize = 40000

// FastBrainfuck is the forward-only interpreter used for batch runs.
// Source is compiled into OpCodes with runs of '<' '>' and '+' '-' collapsed,
// so one step may cover several source characters. It cannot undo.
type FastBrainfuck struct {
	ops            []OpCode
	spans          []Span
	io             IO
	tape           []byte
	tapePointer    int
	commandPointer int
	output         []rune
	finished       bool
}

var _ Interpreter = new(FastBrainfuck)

func NewFastBrainfuck(code string, io IO) (*FastBrainfuck, error) {
	ops, spans, err := CompileBrainfuck([]rune(code))
	if err != nil {
		return nil, err
	}
	if io == nil {
		io = NopIO{}
	}
	return &FastBrainfuck{
		ops:   ops,
		spans: spans,
		io:    io,
		tape:  make([]byte, FastTapeSize),
	}, nil
}

// CompileBrainfuck compiles code into ops terminated by OpEnd. spans[i] is the source range of ops[i].
// Loop ops carry the index of their matching loop op as argument.
func CompileBrainfuck(code []rune) (ops []OpCode, spans []Span, err error) {
	var stack []int
	var stackPos []int

	emit := func(op OpCode, start, end int) {
		ops = append(ops, op)
		spans = append(spans, Span{Start: start, Length: end - start})
	}

	for i := 0; i < len(code); {
		start := i
		switch c := code[i]; c {

		case '>', '<':
			delta := 0
			for i < len(code) && (code[i] == '>' || code[i] == '<') {
				if delta == maxOpArg || delta == minOpArg {
					emit(OpPointer.With(delta), start, i)
					start = i
					delta = 0
				}
				if code[i] == '>' {
					delta++
				} else {
					delta--
				}
				i++
			}
			emit(OpPointer.With(delta), start, i)

		case '+', '-':
			delta := 0
			for i < len(code) && (code[i] == '+' || code[i] == '-') {
				if code[i] == '+' {
					delta++
				} else {
					delta--
				}
				i++
			}
			emit(OpCell.With(delta&0xff), start, i)

		case '[':
			stack = append(stack, len(ops))
			stackPos = append(stackPos, i)
			i++
			emit(OpOpenLoop, start, i)

		case ']':
			if len(stack) == 0 {
				return nil, nil, syntaxError(UnmatchedCloseParen, i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stackPos = stackPos[:len(stackPos)-1]
			current := len(ops)
			ops[open] = OpOpenLoop.With(current)
			i++
			emit(OpCloseLoop.With(open), start, i)

		case ',':
			i++
			emit(OpInput, start, i)

		case '.':
			i++
			emit(OpOutput, start, i)

		default:
			i++
		}
	}

	if len(stackPos) > 0 {
		return nil, nil, syntaxError(UnmatchedOpenParen, stackPos[len(stackPos)-1])
	}

	emit(OpEnd, len(code), len(code))
	return ops, spans, nil
}

func (f *FastBrainfuck) Step() (Span, error) {
	if f.finished {
		return Span{}, ErrExecutionEnded
	}

	op := f.ops[f.commandPointer]
	span := f.spans[f.commandPointer]

	switch op.Op() {

	case OpEnd:
		f.finished = true
		return Span{}, ErrExecutionEnded

	case OpPointer:
		f.tapePointer += op.Arg()
		if f.tapePointer < 0 || f.tapePointer >= len(f.tape) {
			return span, runtimeError(InvalidTapeCell, span)
		}

	case OpCell:
		f.tape[f.tapePointer] += byte(op.Arg())

	case OpOpenLoop:
		if f.tape[f.tapePointer] == 0 {
			f.commandPointer = op.Arg()
		}

	case OpCloseLoop:
		if f.tape[f.tapePointer] != 0 {
			f.commandPointer = op.Arg()
		}

	case OpInput:
		r, ok := f.io.NextInput()
		if !ok {
			// command pointer not advanced, the same op runs again on resume
			return span, ErrNoInput
		}
		f.tape[f.tapePointer] = byte(r)

	case OpOutput:
		r := rune(f.tape[f.tapePointer])
		f.output = append(f.output, r)
		f.io.EmitOutput(string(r))

	}

	f.commandPointer++
	return span, nil
}

func (f *FastBrainfuck) Run() (string, error) {
	for {
		if _, err := f.Step(); err == ErrExecutionEnded {
			break
		} else if err != nil {
			return string(f.output), err
		}
	}
	return string(f.output), nil
}

func (f *FastBrainfuck) Output() string {
	return string(f.output)
}

func (f *FastBrainfuck) TapePointer() int {
	return f.tapePointer
}

func (f *FastBrainfuck) Cell(i int) byte {
	return f.tape[i]
}
