package visualisers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/inputs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/syncs"
)

const (
	StatusActive   = "During execution"
	StatusInactive = "Visualiser not currently active"

	RejectEditMessage = "Please stop visualiser before editing text"
)

// Visualiser drives a reversible interpreter one instruction at a time.
// A session starts lazily on the first forward step and ends on Stop or a syntax error.
type Visualiser struct {
	Logger       dscope.Inject[logs.Logger]
	NewSpan      dscope.Inject[logs.NewSpan]
	HistoryLimit dscope.Inject[ideconfigs.HistoryLimit]
	FastInterval dscope.Inject[ideconfigs.FastInterval]
	SpeedFactor  dscope.Inject[ideconfigs.SpeedFactor]

	code  func() string
	input *inputs.Buffer
	view  View
	batch syncs.Semaphore

	mu            sync.Mutex
	ctx           context.Context
	language      *languages.Language
	interpreter   interpreters.Reversible
	position      interpreters.Span
	output        string
	status        string
	errorText     string
	errorLocation *interpreters.Span
	interval      time.Duration
	skip          int
	running       bool
	stopRun       context.CancelFunc
	runDone       chan struct{}
}

type NewVisualiser func(code func() string, input *inputs.Buffer, view View) *Visualiser

func (Module) NewVisualiser(
	inject dscope.InjectStruct,
) NewVisualiser {
	return func(code func() string, input *inputs.Buffer, view View) *Visualiser {
		if input == nil {
			input = inputs.NewBuffer(nil)
		}
		ret := &Visualiser{
			code:     code,
			input:    input,
			view:     view,
			batch:    syncs.NewSemaphore(1),
			ctx:      context.Background(),
			language: languages.None,
			status:   StatusInactive,
		}
		inject(ret)
		ret.interval, ret.skip = runSpeed(Speed{}, time.Duration(ret.FastInterval()), float64(ret.SpeedFactor()))
		return ret
	}
}

// visualIO is only called by the interpreter while mu is held.
type visualIO struct {
	v *Visualiser
}

var _ interpreters.IO = visualIO{}

func (v visualIO) NextInput() (rune, bool) {
	return v.v.input.Next()
}

func (v visualIO) UndoInput() {
	v.v.input.Prev()
}

func (v visualIO) EmitOutput(text string) {
	v.v.output = text
}

func (v *Visualiser) Input() *inputs.Buffer {
	return v.input
}

func (v *Visualiser) SetLanguage(lang *languages.Language) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if lang == v.language {
		return
	}
	v.language = lang
	v.input.SetDecoder(lang.Decoder)
}

func (v *Visualiser) SetSpeed(speed Speed) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.interval, v.skip = runSpeed(speed, time.Duration(v.FastInterval()), float64(v.SpeedFactor()))
}

// Active reports whether a session is in progress.
func (v *Visualiser) Active() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interpreter != nil
}

// Step steps forward n instructions if n is positive, backward if negative.
// It stops at the first failure and reports whether all steps succeeded.
func (v *Visualiser) Step(n int) bool {
	v.Pause()
	v.mu.Lock()
	v.clearError()
	ok := v.move(n)
	snapshot := v.snapshot()
	v.mu.Unlock()
	v.render(snapshot)
	return ok
}

// Jump moves n steps like Step, as a batch on a worker. Only one batch runs at a time;
// if another is in progress the returned channel is closed without a value.
func (v *Visualiser) Jump(ctx context.Context, n int) <-chan Snapshot {
	ret := make(chan Snapshot, 1)
	if !v.batch.TryAcquire() {
		close(ret)
		return ret
	}
	v.Pause()
	go func() {
		defer v.batch.Release()
		defer close(ret)
		if ctx.Err() != nil {
			return
		}
		v.mu.Lock()
		v.clearError()
		v.move(n)
		snapshot := v.snapshot()
		v.mu.Unlock()
		v.render(snapshot)
		ret <- snapshot
	}()
	return ret
}

// Run auto-steps at the configured speed until Pause, Stop or a failing step.
// The returned channel is closed when auto-stepping ends.
func (v *Visualiser) Run(ctx context.Context) <-chan struct{} {
	v.mu.Lock()
	if v.running {
		done := v.runDone
		v.mu.Unlock()
		return done
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.running = true
	v.stopRun = cancel
	v.runDone = done
	v.clearError()
	v.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			interval, ok := v.tick(ctx)
			if !ok {
				return
			}
			timer.Reset(interval)
		}
	}()

	return done
}

func (v *Visualiser) tick(ctx context.Context) (time.Duration, bool) {
	v.mu.Lock()
	if ctx.Err() != nil {
		v.mu.Unlock()
		return 0, false
	}
	ok := v.move(v.skip + 1)
	if !ok {
		v.running = false
		v.stopRun()
	}
	interval := v.interval
	snapshot := v.snapshot()
	v.mu.Unlock()
	v.render(snapshot)
	return interval, ok
}

// Pause ends auto-stepping. The session stays active.
func (v *Visualiser) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pause()
}

func (v *Visualiser) pause() {
	if !v.running {
		return
	}
	v.running = false
	v.stopRun()
}

// Stop ends auto-stepping and the session.
func (v *Visualiser) Stop() {
	v.mu.Lock()
	v.pause()
	v.clearError()
	v.stop()
	snapshot := v.snapshot()
	v.mu.Unlock()
	v.render(snapshot)
}

// RejectEdit reports whether source edits must be refused, and if so shows why.
func (v *Visualiser) RejectEdit() bool {
	v.mu.Lock()
	if v.interpreter == nil {
		v.mu.Unlock()
		return false
	}
	v.errorText = RejectEditMessage
	snapshot := v.snapshot()
	v.mu.Unlock()
	v.render(snapshot)
	return true
}

func (v *Visualiser) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

func (v *Visualiser) render(snapshot Snapshot) {
	if v.view != nil {
		v.view.Render(snapshot)
	}
}

func (v *Visualiser) move(n int) bool {
	for ; n > 0; n-- {
		if !v.forward() {
			return false
		}
	}
	for ; n < 0; n++ {
		if !v.back() {
			return false
		}
	}
	return true
}

func (v *Visualiser) forward() bool {
	if v.interpreter == nil {
		if !v.start() {
			return false
		}
	}
	span, err := v.interpreter.Step()
	if err != nil {
		v.handle(err)
		return false
	}
	v.position = span
	return true
}

func (v *Visualiser) back() bool {
	if v.interpreter == nil {
		v.handle(interpreters.ErrNoPreviousExecution)
		return false
	}
	span, err := v.interpreter.Back()
	if err != nil {
		v.handle(err)
		return false
	}
	v.position = span
	return true
}

func (v *Visualiser) start() bool {
	interpreter, err := v.language.NewVisual(
		v.code(),
		visualIO{v},
		int(v.HistoryLimit()),
	)
	if err != nil {
		v.handle(err)
		return false
	}
	v.ctx, _ = v.NewSpan()(context.Background(), "")
	v.Logger().InfoContext(v.ctx, "visualiser started",
		"language", v.language,
	)
	v.interpreter = interpreter
	v.position = interpreters.Span{}
	v.output = ""
	v.status = StatusActive
	return true
}

func (v *Visualiser) stop() {
	if v.interpreter != nil {
		v.Logger().InfoContext(v.ctx, "visualiser stopped",
			"instructions", v.interpreter.InstructionCount(),
		)
	}
	v.interpreter = nil
	v.position = interpreters.Span{}
	v.status = StatusInactive
	v.input.Restart()
}

func (v *Visualiser) clearError() {
	v.errorText = ""
	v.errorLocation = nil
}

func (v *Visualiser) handle(err error) {
	v.errorText = interpreters.Describe(err)

	var programErr *interpreters.ProgramError
	switch {
	case errors.Is(err, interpreters.ErrExecutionEnded),
		errors.Is(err, interpreters.ErrNoPreviousExecution),
		errors.Is(err, interpreters.ErrNoInput),
		errors.Is(err, interpreters.ErrNoInterpreter):
	case errors.As(err, &programErr):
		location := programErr.Location
		v.errorLocation = &location
		if programErr.Kind.IsSyntax() {
			v.stop()
		}
	default:
		v.Logger().ErrorContext(v.ctx, "visualiser error",
			"error", err,
		)
	}
}

func (v *Visualiser) snapshot() Snapshot {
	start, end := v.input.Highlight()
	ret := Snapshot{
		Active:    v.interpreter != nil,
		Running:   v.running,
		Position:  v.position,
		Output:    v.output,
		InputSpan: interpreters.Span{Start: start, Length: end - start},
		Status:    v.status,
		Error:     v.errorText,
	}
	if v.errorLocation != nil {
		location := *v.errorLocation
		ret.ErrorLocation = &location
	}
	if v.interpreter != nil {
		ret.Tape = v.interpreter.Tape()
		ret.TapePointer = v.interpreter.TapePointer()
		ret.InstructionCount = v.interpreter.InstructionCount()
	}
	return ret
}
