package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/runners"
)

// terminalDisplay prints output as it arrives and keeps the last status and error.
type terminalDisplay struct {
	out io.Writer

	mu     sync.Mutex
	status string
	err    string
}

var _ runners.Display = new(terminalDisplay)

func (t *terminalDisplay) ClearOutput() {}

func (t *terminalDisplay) AppendOutput(text string) {
	io.WriteString(t.out, text)
}

func (t *terminalDisplay) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

func (t *terminalDisplay) SetError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = message
}

func (t *terminalDisplay) state() (status, err string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.err
}

// feeder reads program input from stdin when a run starves.
type feeder struct {
	reader *bufio.Reader
	eof    bool
}

func (f *feeder) next() (string, bool) {
	if f.reader == nil || f.eof {
		return "", false
	}
	buf := make([]byte, 4096)
	n, err := f.reader.Read(buf)
	if errors.Is(err, io.EOF) {
		f.eof = true
	} else {
		ce(err)
	}
	if n == 0 && f.eof {
		return "", false
	}
	return string(buf[:n]), true
}

func runBatch(ctx context.Context, scope dscope.Scope, code string, lang *languages.Language) (exitCode int) {
	display := &terminalDisplay{
		out: os.Stdout,
	}
	input := new(feeder)
	if stdinPiped() {
		input.reader = bufio.NewReader(os.Stdin)
	}

	scope.Call(func(
		newController runners.NewController,
	) {
		ctrl := newController(display, func() string {
			return code
		})
		ctrl.SetLanguage(lang)
		ctrl.Input().Append(*inputFlag)
		go ctrl.Loop(ctx)
		notifyInterrupt(ctx, ctrl.Interrupt)

		ctrl.RunCode()
		for {
			select {
			case <-ctx.Done():
				exitCode = 1
				return
			case <-ctrl.Completed():
			}

			switch ctrl.Status() {
			case runners.StatusPaused:
				if text, ok := input.next(); ok {
					ctrl.Input().Append(text)
					ctrl.RunCode()
					continue
				}
				_, message := display.state()
				fmt.Fprintln(os.Stderr, message)
				exitCode = 3
				return

			case runners.StatusStopped:
				if _, message := display.state(); message != "" {
					fmt.Fprintln(os.Stderr, message)
					exitCode = 1
				}
				return
			}
		}
	})

	return
}
