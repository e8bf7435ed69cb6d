package logs

import (
	"log/slog"

	"github.com/reusee/esoide/cmds"
)

// Level is the default level of the current mode. Command words override it.
type Level slog.Level

var (
	level         = new(slog.LevelVar)
	levelOverride *slog.Level
)

func init() {
	for word, l := range map[string]slog.Level{
		"-log-debug": slog.LevelDebug,
		"-log-info":  slog.LevelInfo,
		"-log-warn":  slog.LevelWarn,
		"-log-error": slog.LevelError,
	} {
		cmds.Define(word, cmds.Func(func() {
			levelOverride = &l
		}).Desc("set log level to "+l.String()))
	}
}

func currentLevel(modeLevel Level) *slog.LevelVar {
	if levelOverride != nil {
		level.Set(*levelOverride)
	} else {
		level.Set(slog.Level(modeLevel))
	}
	return level
}
