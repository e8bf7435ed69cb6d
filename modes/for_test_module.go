package modes

import (
	"log/slog"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/logs"
)

type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}

func (m ModuleForTest) Mode() Mode {
	return ModeDevelopment
}

func (m ModuleForTest) LogLevel() logs.Level {
	return logs.Level(slog.LevelDebug)
}
