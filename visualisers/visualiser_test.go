package visualisers

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reusee/dscope"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/modes"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

type testView struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (t *testView) Render(snapshot Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots = append(t.snapshots, snapshot)
}

func (t *testView) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.snapshots)
}

func newTestVisualiser(t *testing.T, code string, config string) (*Visualiser, *testView) {
	view := new(testView)
	var v *Visualiser
	dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(ideconfigs.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader([]configs.Source{
				{Name: "test.cue", Content: []byte(config)},
			}, ideconfigs.Schema)
		},
	).Call(func(
		newVisualiser NewVisualiser,
	) {
		v = newVisualiser(func() string {
			return code
		}, nil, view)
	})
	v.SetLanguage(languages.Brainfuck)
	return v, view
}

func TestRunSpeed(t *testing.T) {
	cases := []struct {
		speed    Speed
		interval time.Duration
		skip     int
	}{
		{Speed{Slider: 0}, 990 * time.Millisecond, 0},
		{Speed{Slider: 49}, 39 * time.Millisecond, 0},
		{Speed{Slider: 99}, 10 * time.Millisecond, 0},
		{Speed{Slider: 1000}, 10 * time.Millisecond, 0},
		{Speed{Fast: true, Slider: 4}, 3 * time.Millisecond, 0},
		{Speed{Fast: true, Slider: 99}, 3 * time.Millisecond, 19},
	}
	for _, c := range cases {
		interval, skip := runSpeed(c.speed, 3*time.Millisecond, 0.0098)
		if interval != c.interval || skip != c.skip {
			t.Fatalf("%+v: got %v %d", c.speed, interval, skip)
		}
	}
}

func TestStepForwardBack(t *testing.T) {
	v, view := newTestVisualiser(t, "+>+.<", "")
	if v.Snapshot().Status != StatusInactive {
		t.Fatal()
	}

	if !v.Step(1) {
		t.Fatal(v.Snapshot().Error)
	}
	snapshot := v.Snapshot()
	if !snapshot.Active || snapshot.Status != StatusActive {
		t.Fatalf("got %+v", snapshot)
	}
	if snapshot.Position != (interpreters.Span{Start: 0, Length: 1}) {
		t.Fatalf("got %v", snapshot.Position)
	}

	if !v.Step(3) {
		t.Fatal(v.Snapshot().Error)
	}
	want := Snapshot{
		Active:           true,
		Position:         interpreters.Span{Start: 3, Length: 1},
		Tape:             []byte{1, 1},
		TapePointer:      1,
		Output:           "\x01",
		InstructionCount: 4,
		Status:           StatusActive,
	}
	if diff := cmp.Diff(want, v.Snapshot()); diff != "" {
		t.Fatal(diff)
	}

	if !v.Step(-1) {
		t.Fatal(v.Snapshot().Error)
	}
	snapshot = v.Snapshot()
	if snapshot.Position != (interpreters.Span{Start: 2, Length: 1}) || snapshot.Output != "" {
		t.Fatalf("got %+v", snapshot)
	}

	// three steps left to undo
	if v.Step(-5) {
		t.Fatal("should fail")
	}
	snapshot = v.Snapshot()
	if snapshot.Error != "No previous execution" {
		t.Fatalf("got %q", snapshot.Error)
	}
	if snapshot.Position != (interpreters.Span{}) || snapshot.InstructionCount != 0 {
		t.Fatalf("got %+v", snapshot)
	}

	if view.count() != 4 {
		t.Fatalf("got %d", view.count())
	}
}

func TestBackWithoutSession(t *testing.T) {
	v, _ := newTestVisualiser(t, "+", "")
	if v.Step(-1) {
		t.Fatal()
	}
	if v.Snapshot().Error != "No previous execution" || v.Active() {
		t.Fatalf("got %+v", v.Snapshot())
	}
}

func TestErrors(t *testing.T) {
	t.Run("finished", func(t *testing.T) {
		v, _ := newTestVisualiser(t, "+", "")
		if v.Step(10) {
			t.Fatal()
		}
		snapshot := v.Snapshot()
		if snapshot.Error != "Execution finished" || !snapshot.Active || snapshot.InstructionCount != 1 {
			t.Fatalf("got %+v", snapshot)
		}
		// the next command clears the error
		v.Step(-1)
		if v.Snapshot().Error != "" {
			t.Fatalf("got %q", v.Snapshot().Error)
		}
	})

	t.Run("syntax", func(t *testing.T) {
		v, _ := newTestVisualiser(t, "+[", "")
		if v.Step(1) {
			t.Fatal()
		}
		snapshot := v.Snapshot()
		if snapshot.Error != "Unmatched opening parentheses at location 1" {
			t.Fatalf("got %q", snapshot.Error)
		}
		if snapshot.ErrorLocation == nil || *snapshot.ErrorLocation != (interpreters.Span{Start: 1, Length: 1}) {
			t.Fatalf("got %v", snapshot.ErrorLocation)
		}
		if snapshot.Active || snapshot.Status != StatusInactive {
			t.Fatalf("got %+v", snapshot)
		}
	})

	t.Run("runtime", func(t *testing.T) {
		v, _ := newTestVisualiser(t, "+<", "")
		if v.Step(2) {
			t.Fatal()
		}
		snapshot := v.Snapshot()
		if snapshot.Error != "Tape pointer out of bounds at location 1" {
			t.Fatalf("got %q", snapshot.Error)
		}
		// rolled back, the session goes on
		if !snapshot.Active || snapshot.InstructionCount != 1 || snapshot.Position.Start != 0 {
			t.Fatalf("got %+v", snapshot)
		}
		if !v.Step(-1) {
			t.Fatal(v.Snapshot().Error)
		}
	})

	t.Run("no interpreter", func(t *testing.T) {
		v, _ := newTestVisualiser(t, "+", "")
		v.SetLanguage(languages.None)
		if v.Step(1) {
			t.Fatal()
		}
		if v.Snapshot().Error != "No interpreter for this file type" {
			t.Fatalf("got %q", v.Snapshot().Error)
		}
	})
}

func TestInput(t *testing.T) {
	v, _ := newTestVisualiser(t, ",.", "")
	if v.Step(1) {
		t.Fatal()
	}
	if v.Snapshot().Error != "Enter input" {
		t.Fatalf("got %q", v.Snapshot().Error)
	}
	v.Input().Append(`\120`)
	if !v.Step(2) {
		t.Fatal(v.Snapshot().Error)
	}
	snapshot := v.Snapshot()
	if snapshot.Output != "x" {
		t.Fatalf("got %q", snapshot.Output)
	}
	if snapshot.InputSpan != (interpreters.Span{Start: 0, Length: 4}) {
		t.Fatalf("got %v", snapshot.InputSpan)
	}
	if v.Input().CanEdit(0) {
		t.Fatal()
	}
	v.Step(-2)
	if v.Input().Consumed() != 0 {
		t.Fatalf("got %d", v.Input().Consumed())
	}
}

func TestRun(t *testing.T) {
	v, _ := newTestVisualiser(t, helloWorld, "fast_interval_ms: 1")
	v.SetSpeed(Speed{Fast: true, Slider: MaxSlider})
	select {
	case <-v.Run(t.Context()):
	case <-time.After(time.Second * 10):
		t.Fatal("timeout")
	}
	snapshot := v.Snapshot()
	if snapshot.Output != "Hello World!\n" {
		t.Fatalf("got %q", snapshot.Output)
	}
	if snapshot.Running || !snapshot.Active || snapshot.Error != "Execution finished" {
		t.Fatalf("got %+v", snapshot)
	}
}

func TestRunPause(t *testing.T) {
	v, _ := newTestVisualiser(t, "+[]", "fast_interval_ms: 1")
	v.SetSpeed(Speed{Fast: true})
	done := v.Run(t.Context())
	// a second call joins the same run
	if v.Run(t.Context()) != done {
		t.Fatal()
	}
	deadline := time.Now().Add(time.Second * 10)
	for v.Snapshot().InstructionCount < 10 {
		if time.Now().After(deadline) {
			t.Fatal("timeout")
		}
		time.Sleep(time.Millisecond)
	}
	v.Pause()
	<-done
	snapshot := v.Snapshot()
	if snapshot.Running || !snapshot.Active {
		t.Fatalf("got %+v", snapshot)
	}
	count := snapshot.InstructionCount
	time.Sleep(time.Millisecond * 20)
	if v.Snapshot().InstructionCount != count {
		t.Fatal("still running")
	}

	v.Run(t.Context())
	v.Stop()
	snapshot = v.Snapshot()
	if snapshot.Running || snapshot.Active || snapshot.Status != StatusInactive {
		t.Fatalf("got %+v", snapshot)
	}
}

func TestJump(t *testing.T) {
	v, _ := newTestVisualiser(t, "++++++++++", "")
	snapshot, ok := <-v.Jump(t.Context(), 5)
	if !ok || snapshot.InstructionCount != 5 || snapshot.Tape[0] != 5 {
		t.Fatalf("got %+v", snapshot)
	}
	snapshot = <-v.Jump(t.Context(), -2)
	if snapshot.InstructionCount != 3 {
		t.Fatalf("got %+v", snapshot)
	}
	snapshot = <-v.Jump(t.Context(), 20)
	if snapshot.InstructionCount != 10 || snapshot.Error != "Execution finished" {
		t.Fatalf("got %+v", snapshot)
	}

	// one batch at a time
	v.batch.Acquire()
	if _, ok := <-v.Jump(t.Context(), 1); ok {
		t.Fatal("should be busy")
	}
	v.batch.Release()
}

func TestRejectEdit(t *testing.T) {
	v, _ := newTestVisualiser(t, ",", "")
	if v.RejectEdit() {
		t.Fatal()
	}
	v.Input().Append("a")
	v.Step(1)
	if !v.RejectEdit() {
		t.Fatal()
	}
	if v.Snapshot().Error != RejectEditMessage {
		t.Fatalf("got %q", v.Snapshot().Error)
	}
	v.Stop()
	if v.RejectEdit() {
		t.Fatal()
	}
	if v.Snapshot().Error != "" || v.Input().Consumed() != 0 {
		t.Fatalf("got %+v", v.Snapshot())
	}
}
