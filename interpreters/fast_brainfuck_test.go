package interpreters

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileBrainfuck(t *testing.T) {
	ops, spans, err := CompileBrainfuck([]rune("+++-x>><[->+<]<<<.,"))
	if err != nil {
		t.Fatal(err)
	}
	wantOps := []OpCode{
		OpCell.With(2),
		OpPointer.With(1),
		OpOpenLoop.With(7),
		OpCell.With(255),
		OpPointer.With(1),
		OpCell.With(1),
		OpPointer.With(-1),
		OpCloseLoop.With(2),
		OpPointer.With(-3),
		OpOutput,
		OpInput,
		OpEnd,
	}
	if diff := cmp.Diff(wantOps, ops); diff != "" {
		t.Fatal(diff)
	}
	wantSpans := []Span{
		{0, 4},
		{5, 3},
		{8, 1},
		{9, 1},
		{10, 1},
		{11, 1},
		{12, 1},
		{13, 1},
		{14, 3},
		{17, 1},
		{18, 1},
		{19, 0},
	}
	if diff := cmp.Diff(wantSpans, spans); diff != "" {
		t.Fatal(diff)
	}
}

func TestOpCodeArg(t *testing.T) {
	for _, arg := range []int{0, 1, -1, 255, maxOpArg, minOpArg} {
		op := OpPointer.With(arg)
		if op.Op() != OpPointer {
			t.Fatalf("got %v", op.Op())
		}
		if op.Arg() != arg {
			t.Fatalf("got %d, want %d", op.Arg(), arg)
		}
	}
}

func TestFastBrainfuckRun(t *testing.T) {
	io := newTestIO("")
	bf, err := NewFastBrainfuck(helloWorld, io)
	if err != nil {
		t.Fatal(err)
	}
	out, err := bf.Run()
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello World!\n" {
		t.Fatalf("got %q", out)
	}
	// incremental output
	if strings.Join(io.outputs, "") != out || len(io.outputs) != len(out) {
		t.Fatalf("got %q", io.outputs)
	}
	if _, err := bf.Step(); !errors.Is(err, ErrExecutionEnded) {
		t.Fatalf("got %v", err)
	}
}

func TestFastBrainfuckSyntaxErrors(t *testing.T) {
	_, err := NewFastBrainfuck("[[]", nil)
	var programErr *ProgramError
	if !errors.As(err, &programErr) {
		t.Fatalf("got %v", err)
	}
	if programErr.Kind != UnmatchedOpenParen || programErr.Location.Start != 0 {
		t.Fatalf("got %+v", programErr)
	}
	_, err = NewFastBrainfuck("+]", nil)
	if !errors.As(err, &programErr) {
		t.Fatalf("got %v", err)
	}
	if programErr.Kind != UnmatchedCloseParen || programErr.Location.Start != 1 {
		t.Fatalf("got %+v", programErr)
	}
}

func TestFastBrainfuckBounds(t *testing.T) {
	t.Run("below zero", func(t *testing.T) {
		bf, err := NewFastBrainfuck("+>+.<<<", nil)
		if err != nil {
			t.Fatal(err)
		}
		steps := 0
		var stepErr error
		for {
			if _, stepErr = bf.Step(); stepErr != nil {
				break
			}
			steps++
		}
		var programErr *ProgramError
		if !errors.As(stepErr, &programErr) {
			t.Fatalf("got %v", stepErr)
		}
		if programErr.Kind != InvalidTapeCell {
			t.Fatalf("got %v", programErr.Kind)
		}
		// the excursion happens at the fifth op, the collapsed '<<<'
		if steps != 4 {
			t.Fatalf("got %d", steps)
		}
		if programErr.Location != (Span{4, 3}) {
			t.Fatalf("got %v", programErr.Location)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		code := strings.Repeat(">", FastTapeSize-1) + "+" + ">"
		bf, err := NewFastBrainfuck(code, nil)
		if err != nil {
			t.Fatal(err)
		}
		for range 2 {
			if _, err := bf.Step(); err != nil {
				t.Fatal(err)
			}
		}
		if bf.TapePointer() != FastTapeSize-1 || bf.Cell(FastTapeSize-1) != 1 {
			t.Fatalf("got %d", bf.TapePointer())
		}
		_, err = bf.Step()
		if !errors.Is(err, ErrProgramRuntime) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("collapsed excursion cancels out", func(t *testing.T) {
		bf, err := NewFastBrainfuck("<>+", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := bf.Run(); err != nil {
			t.Fatal(err)
		}
	})
}

func TestFastBrainfuckNoInputRetry(t *testing.T) {
	io := newTestIO("Ab")
	bf, err := NewFastBrainfuck(",>,>,.<.<.", io)
	if err != nil {
		t.Fatal(err)
	}
	_, err = bf.Run()
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("got %v", err)
	}
	if bf.Output() != "" {
		t.Fatalf("got %q", bf.Output())
	}
	io.input = append(io.input, 'C')
	out, err := bf.Run()
	if err != nil {
		t.Fatal(err)
	}
	if out != "CbA" {
		t.Fatalf("got %q", out)
	}
}

func TestFastMatchesReversible(t *testing.T) {
	programs := []string{
		helloWorld,
		"++++[>++++++++<-]>[.+]",
		",[.,]",
	}
	for _, program := range programs {
		fast, err := NewFastBrainfuck(program, newTestIO("abc"))
		if err != nil {
			t.Fatal(err)
		}
		slow, err := NewBrainfuck(program, newTestIO("abc"))
		if err != nil {
			t.Fatal(err)
		}
		a, errA := fast.Run()
		b, errB := slow.Run()
		if a != b || !errors.Is(errA, errB) && errA != errB {
			t.Fatalf("%s: got %q %v, %q %v", program, a, errA, b, errB)
		}
	}
}
