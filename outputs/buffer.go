package outputs

import (
	"strings"
	"sync"
	"time"

	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/logs"
)

// Sink receives drained output.
type Sink interface {
	AppendOutput(text string)
	// Completed is called once after the buffer is stopped and fully drained.
	Completed()
}

// Buffer queues output chunks between a fast producer and a slow display.
// It never blocks the producer. Past the warn threshold it keeps growing and logs once per run.
type Buffer struct {
	logger     logs.Logger
	interval   time.Duration
	batch      int
	warnChunks int

	mu        sync.Mutex
	chunks    []string
	stopped   bool
	completed bool
	warned    bool
}

type New func() *Buffer

func (Module) New(
	logger logs.Logger,
	interval ideconfigs.DrainInterval,
	batch ideconfigs.DrainBatch,
	warnChunks ideconfigs.OutputWarnChunks,
) New {
	return func() *Buffer {
		return &Buffer{
			logger:     logger,
			interval:   time.Duration(interval),
			batch:      int(batch),
			warnChunks: int(warnChunks),
		}
	}
}

func (b *Buffer) Write(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = append(b.chunks, text)
	if !b.warned && len(b.chunks) > b.warnChunks {
		b.warned = true
		b.logger.Warn("output buffer growing",
			"chunks", len(b.chunks),
		)
	}
}

// Len returns the number of pending chunks.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Drain removes up to max chunks, oldest first.
func (b *Buffer) Drain(max int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := min(max, len(b.chunks))
	ret := make([]string, n)
	copy(ret, b.chunks)
	b.chunks = b.chunks[n:]
	if len(b.chunks) == 0 {
		b.chunks = nil
	}
	return ret
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.warned = false
}

// Stop marks the producer as finished. Pending chunks are still drained before completion.
func (b *Buffer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

// StopImmediate discards pending chunks and marks the producer as finished.
func (b *Buffer) StopImmediate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.stopped = true
}

// Continue rearms completion for a new or resumed run.
func (b *Buffer) Continue() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = false
	b.completed = false
	b.warned = false
}

// Interval is the drain cadence.
func (b *Buffer) Interval() time.Duration {
	return b.interval
}

// Flush delivers one batch or, if drained and stopped, the completion.
func (b *Buffer) Flush(sink Sink) {
	if chunks := b.Drain(b.batch); len(chunks) > 0 {
		sink.AppendOutput(strings.Join(chunks, ""))
		return
	}
	b.mu.Lock()
	complete := b.stopped && !b.completed && len(b.chunks) == 0
	if complete {
		b.completed = true
	}
	b.mu.Unlock()
	if complete {
		sink.Completed()
	}
}
