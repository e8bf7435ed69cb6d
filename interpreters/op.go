package interpreters

// OpCode is a compiled instruction: the low 8 bits are the operation,
// the rest is a signed argument.
type OpCode uint32

const (
	OpEnd OpCode = iota
	OpPointer
	OpCell
	OpOpenLoop
	OpCloseLoop
	OpInput
	OpOutput
)

const (
	maxOpArg = 1<<23 - 1
	minOpArg = -(1 << 23)
)

func (o OpCode) With(arg int) OpCode {
	return o | OpCode(uint32(int32(arg))<<8)
}

func (o OpCode) Op() OpCode {
	return o & 0xff
}

func (o OpCode) Arg() int {
	return int(int32(o) >> 8)
}

func (o OpCode) String() string {
	switch o.Op() {
	case OpEnd:
		return "end"
	case OpPointer:
		return "pointer"
	case OpCell:
		return "cell"
	case OpOpenLoop:
		return "open_loop"
	case OpCloseLoop:
		return "close_loop"
	case OpInput:
		return "input"
	case OpOutput:
		return "output"
	}
	return "unknown"
}
