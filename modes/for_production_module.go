package modes

import (
	"log/slog"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/logs"
)

type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

func (ModuleForProduction) T() *testing.T {
	return nil
}

func (ModuleForProduction) Mode() Mode {
	return ModeProduction
}

func (ModuleForProduction) LogLevel() logs.Level {
	return logs.Level(slog.LevelWarn)
}
