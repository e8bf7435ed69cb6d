package runners

import (
	"context"
	"errors"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/logs"
)

type commandKind int

const (
	commandRun commandKind = iota + 1
	commandInterrupt
	commandStop
	commandSetLanguage
)

type command struct {
	kind     commandKind
	language *languages.Language
}

// Runner is the batch worker. Loop owns the interpreter exclusively;
// other goroutines talk to it through commands and observe it through Events.
// Commands are only acted on between instructions.
type Runner struct {
	Logger      dscope.Inject[logs.Logger]
	NewSpan     dscope.Inject[logs.NewSpan]
	EventBuffer dscope.Inject[ideconfigs.EventBuffer]

	code     func() string
	io       interpreters.IO
	commands chan command
	events   chan Event
}

// Resetter is implemented by IOs that carry state between runs.
// Reset is called on the worker before a new interpreter is constructed.
type Resetter interface {
	Reset()
}

// Releaser is implemented by IOs that lock state for the duration of a run.
// Release is called on the worker after an interpreter is discarded, before the event reporting it.
type Releaser interface {
	Release()
}

type NewRunner func(code func() string, io interpreters.IO) *Runner

func (Module) NewRunner(
	inject dscope.InjectStruct,
) NewRunner {
	return func(code func() string, io interpreters.IO) *Runner {
		ret := &Runner{
			code: code,
			io:   io,
		}
		inject(ret)
		ret.commands = make(chan command, int(ret.EventBuffer()))
		ret.events = make(chan Event, int(ret.EventBuffer()))
		return ret
	}
}

func (r *Runner) Events() <-chan Event {
	return r.events
}

// RunCalled starts a run, resumes a paused one, or restarts a live one.
// Calls arriving while a run is live collapse into a single restart.
func (r *Runner) RunCalled() {
	r.commands <- command{kind: commandRun}
}

// Interrupt halts a live run after its current instruction. It does nothing to a paused run.
func (r *Runner) Interrupt() {
	r.commands <- command{kind: commandInterrupt}
}

// Stop discards the interpreter, live or paused.
func (r *Runner) Stop() {
	r.commands <- command{kind: commandStop}
}

// SetLanguage switches the interpreter type for the next run and interrupts the current one if it changes.
func (r *Runner) SetLanguage(lang *languages.Language) {
	r.commands <- command{kind: commandSetLanguage, language: lang}
}

type loopState struct {
	ctx         context.Context
	language    *languages.Language
	interpreter interpreters.Interpreter
	executing   bool
	steps       int
}

// Loop runs the worker until ctx is done.
func (r *Runner) Loop(ctx context.Context) error {
	ctx, _ = r.NewSpan()(ctx, "")
	state := &loopState{
		ctx:      ctx,
		language: languages.None,
	}

	for {

		if !state.executing {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-r.commands:
				if err := r.idleCommand(state, cmd); err != nil {
					return err
				}
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.commands:
			if err := r.liveCommands(state, cmd); err != nil {
				return err
			}
			continue
		default:
		}

		_, err := state.interpreter.Step()
		if err == nil {
			state.steps++
			continue
		}
		if err := r.stepError(state, err); err != nil {
			return err
		}
	}
}

func (r *Runner) idleCommand(state *loopState, cmd command) error {
	switch cmd.kind {

	case commandRun:
		if state.interpreter == nil {
			return r.start(state)
		}
		r.Logger().DebugContext(state.ctx, "run continued",
			"steps", state.steps,
		)
		state.executing = true
		return r.emit(state.ctx, Event{Kind: Continued})

	case commandStop:
		if state.interpreter != nil {
			r.discard(state)
			return r.emit(state.ctx, Event{Kind: Stopped})
		}

	case commandSetLanguage:
		if cmd.language == state.language {
			return nil
		}
		state.language = cmd.language
		if state.interpreter != nil {
			// a paused run of the old language cannot be resumed
			r.discard(state)
			return r.emit(state.ctx, Event{Kind: Stopped})
		}

	}
	return nil
}

// liveCommands merges cmd with every command already queued and acts once.
func (r *Runner) liveCommands(state *loopState, cmd command) error {
	action := commandKind(0)
	merge := func(cmd command) {
		switch cmd.kind {
		case commandSetLanguage:
			if cmd.language != state.language {
				state.language = cmd.language
				action = commandInterrupt
			}
		default:
			action = cmd.kind
		}
	}
	merge(cmd)
loop:
	for {
		select {
		case cmd := <-r.commands:
			merge(cmd)
		default:
			break loop
		}
	}

	switch action {

	case commandRun:
		r.Logger().InfoContext(state.ctx, "run restarted",
			"steps", state.steps,
		)
		r.discard(state)
		if err := r.emit(state.ctx, Event{Kind: Stopped}); err != nil {
			return err
		}
		return r.start(state)

	case commandInterrupt:
		r.Logger().InfoContext(state.ctx, "run interrupted",
			"steps", state.steps,
		)
		r.discard(state)
		return r.emit(state.ctx, Event{Kind: Interrupted})

	case commandStop:
		r.discard(state)
		return r.emit(state.ctx, Event{Kind: Stopped})

	}
	return nil
}

func (r *Runner) start(state *loopState) error {
	if resetter, ok := r.io.(Resetter); ok {
		resetter.Reset()
	}
	if err := r.emit(state.ctx, Event{Kind: Started}); err != nil {
		return err
	}
	state.steps = 0
	interpreter, err := state.language.NewRunner(r.code(), r.io)
	if err != nil {
		r.Logger().InfoContext(state.ctx, "run not started",
			"language", state.language,
			"error", err,
		)
		r.discard(state)
		return r.emit(state.ctx, Event{Kind: Stopped, Err: err})
	}
	r.Logger().InfoContext(state.ctx, "run started",
		"language", state.language,
	)
	state.interpreter = interpreter
	state.executing = true
	return nil
}

func (r *Runner) stepError(state *loopState, err error) error {
	state.executing = false

	if errors.Is(err, interpreters.ErrNoInput) {
		r.Logger().DebugContext(state.ctx, "run paused",
			"steps", state.steps,
		)
		return r.emit(state.ctx, Event{Kind: Paused, Err: err})
	}

	r.discard(state)
	if errors.Is(err, interpreters.ErrExecutionEnded) {
		r.Logger().InfoContext(state.ctx, "run finished",
			"steps", state.steps,
		)
		return r.emit(state.ctx, Event{Kind: Stopped})
	}

	r.Logger().InfoContext(state.ctx, "run failed",
		"steps", state.steps,
		"error", err,
	)
	return r.emit(state.ctx, Event{Kind: Stopped, Err: err})
}

func (r *Runner) discard(state *loopState) {
	state.interpreter = nil
	state.executing = false
	if releaser, ok := r.io.(Releaser); ok {
		releaser.Release()
	}
}

func (r *Runner) emit(ctx context.Context, event Event) error {
	select {
	case r.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
