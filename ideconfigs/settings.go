package ideconfigs

import (
	"time"

	"github.com/reusee/esoide/cmds"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/vars"
)

// HistoryLimit bounds the undo history of the reversible interpreter.
type HistoryLimit int

var _ configs.Configurable = HistoryLimit(0)

func (HistoryLimit) ConfigPath() string {
	return "history_limit"
}

var historyLimitFlag = cmds.Var[int]("-history-limit")

func (Module) HistoryLimit(
	loader configs.Loader,
) HistoryLimit {
	return HistoryLimit(vars.FirstNonZero(
		*historyLimitFlag,
		int(configs.Get[HistoryLimit](loader)),
		interpreters.DefaultHistoryLimit,
	))
}

// DrainInterval is the cadence of output drains.
type DrainInterval time.Duration

var drainIntervalFlag = cmds.Var[time.Duration]("-drain-interval")

func (Module) DrainInterval(
	loader configs.Loader,
) DrainInterval {
	return DrainInterval(vars.FirstNonZero(
		*drainIntervalFlag,
		time.Duration(configs.First[int](loader, "drain_interval_ms"))*time.Millisecond,
		10*time.Millisecond,
	))
}

// DrainBatch is the maximum number of output chunks delivered per drain.
type DrainBatch int

var _ configs.Configurable = DrainBatch(0)

func (DrainBatch) ConfigPath() string {
	return "drain_batch"
}

var drainBatchFlag = cmds.Var[int]("-drain-batch")

func (Module) DrainBatch(
	loader configs.Loader,
) DrainBatch {
	return DrainBatch(vars.FirstNonZero(
		*drainBatchFlag,
		int(configs.Get[DrainBatch](loader)),
		100,
	))
}

// OutputWarnChunks is the pending chunk count past which the output buffer warns.
type OutputWarnChunks int

var _ configs.Configurable = OutputWarnChunks(0)

func (OutputWarnChunks) ConfigPath() string {
	return "output_warn_chunks"
}

func (Module) OutputWarnChunks(
	loader configs.Loader,
) OutputWarnChunks {
	return OutputWarnChunks(vars.FirstNonZero(
		int(configs.Get[OutputWarnChunks](loader)),
		1_000_000,
	))
}

// FastInterval is the visualiser tick in fast mode.
type FastInterval time.Duration

func (Module) FastInterval(
	loader configs.Loader,
) FastInterval {
	return FastInterval(vars.FirstNonZero(
		time.Duration(configs.First[int](loader, "fast_interval_ms"))*time.Millisecond,
		10*time.Millisecond,
	))
}

// SpeedFactor is k in the slider interval 1000/(v*v*k+1).
type SpeedFactor float64

var _ configs.Configurable = SpeedFactor(0)

func (SpeedFactor) ConfigPath() string {
	return "speed_factor"
}

func (Module) SpeedFactor(
	loader configs.Loader,
) SpeedFactor {
	return SpeedFactor(vars.FirstNonZero(
		float64(configs.Get[SpeedFactor](loader)),
		0.0098,
	))
}

// EventBuffer is the capacity of runner event channels.
type EventBuffer int

var _ configs.Configurable = EventBuffer(0)

func (EventBuffer) ConfigPath() string {
	return "event_buffer"
}

func (Module) EventBuffer(
	loader configs.Loader,
) EventBuffer {
	return EventBuffer(vars.FirstNonZero(
		int(configs.Get[EventBuffer](loader)),
		64,
	))
}
