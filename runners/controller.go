package runners

import (
	"context"
	"sync"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/inputs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/outputs"
)

type Status int

const (
	StatusStopped Status = iota
	StatusRunning
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	}
	return "Stopped"
}

// Display shows a batch run.
type Display interface {
	ClearOutput()
	AppendOutput(text string)
	SetStatus(status string)
	// SetError shows message, or hides the error line if message is empty.
	SetError(message string)
}

// Controller connects a Runner to an input buffer, an output buffer and a Display.
// Display methods are only called from Loop.
type Controller struct {
	Logger      dscope.Inject[logs.Logger]
	NewRunner   dscope.Inject[NewRunner]
	NewOutput   dscope.Inject[outputs.New]
	EventBuffer dscope.Inject[ideconfigs.EventBuffer]

	display   Display
	runner    *Runner
	input     *inputs.Buffer
	output    *outputs.Buffer
	completed chan struct{}

	mu           sync.Mutex
	status       Status
	errorMessage string
}

type NewController func(display Display, code func() string) *Controller

func (Module) NewController(
	inject dscope.InjectStruct,
) NewController {
	return func(display Display, code func() string) *Controller {
		ret := &Controller{
			display: display,
		}
		inject(ret)
		ret.input = inputs.NewBuffer(nil)
		ret.output = ret.NewOutput()()
		ret.runner = ret.NewRunner()(code, controllerIO{ret})
		ret.completed = make(chan struct{}, int(ret.EventBuffer()))
		return ret
	}
}

// controllerIO feeds the interpreter from the input buffer and into the output buffer.
type controllerIO struct {
	c *Controller
}

var _ interpreters.IO = controllerIO{}

var _ Resetter = controllerIO{}

var _ Releaser = controllerIO{}

func (c controllerIO) NextInput() (rune, bool) {
	return c.c.input.Next()
}

func (c controllerIO) UndoInput() {
	c.c.input.Prev()
}

func (c controllerIO) EmitOutput(text string) {
	c.c.output.Write(text)
}

func (c controllerIO) Reset() {
	c.c.input.Restart()
	c.c.output.Clear()
}

// Release unlocks the consumed input once a run is over.
func (c controllerIO) Release() {
	c.c.input.Restart()
}

func (c *Controller) Input() *inputs.Buffer {
	return c.input
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Completed receives once every time the output of a paused or stopped run has been fully shown.
func (c *Controller) Completed() <-chan struct{} {
	return c.completed
}

func (c *Controller) RunCode() {
	c.runner.RunCalled()
}

func (c *Controller) Interrupt() {
	c.runner.Interrupt()
}

func (c *Controller) Stop() {
	c.runner.Stop()
}

func (c *Controller) SetLanguage(lang *languages.Language) {
	c.runner.SetLanguage(lang)
	c.input.SetDecoder(lang.Decoder)
}

// Loop runs the worker and drives the display until ctx is done.
func (c *Controller) Loop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var runnerErr error
	wg.Go(func() {
		runnerErr = c.runner.Loop(ctx)
		cancel()
	})
	defer wg.Wait()

	ticker := time.NewTicker(c.output.Interval())
	defer ticker.Stop()
	sink := controllerSink{c}

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			if runnerErr != nil {
				return runnerErr
			}
			return ctx.Err()
		case event := <-c.runner.Events():
			c.handle(ctx, event)
		case <-ticker.C:
			// events sent before the output was written must be shown first
		drain:
			for {
				select {
				case event := <-c.runner.Events():
					c.handle(ctx, event)
				default:
					break drain
				}
			}
			c.output.Flush(sink)
		}
	}
}

func (c *Controller) handle(ctx context.Context, event Event) {
	c.Logger().DebugContext(ctx, "runner event",
		"event", event,
	)
	switch event.Kind {

	case Started:
		c.display.ClearOutput()
		c.continued()

	case Continued:
		c.continued()

	case Paused:
		c.setState(StatusPaused, interpreters.Describe(event.Err))
		c.output.Stop()

	case Stopped:
		c.setState(StatusStopped, interpreters.Describe(event.Err))
		c.output.Stop()

	case Interrupted:
		c.setState(StatusStopped, "")
		c.output.StopImmediate()

	}
}

func (c *Controller) setState(status Status, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.errorMessage = message
}

func (c *Controller) continued() {
	c.setState(StatusRunning, "")
	c.output.Continue()
	c.display.SetStatus(StatusRunning.String())
	c.display.SetError("")
}

func (c *Controller) outputCompleted() {
	c.mu.Lock()
	status := c.status
	message := c.errorMessage
	c.mu.Unlock()

	if message != "" {
		c.display.SetError(message)
	}
	c.display.SetStatus(status.String())

	select {
	case c.completed <- struct{}{}:
	default:
	}
}

type controllerSink struct {
	c *Controller
}

var _ outputs.Sink = controllerSink{}

func (s controllerSink) AppendOutput(text string) {
	s.c.display.AppendOutput(text)
}

func (s controllerSink) Completed() {
	s.c.outputCompleted()
}
