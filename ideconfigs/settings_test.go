package ideconfigs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/interpreters"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/modes"
)

func testScope(t *testing.T, content string) dscope.Scope {
	return dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader([]configs.Source{
				{Name: "test.cue", Content: []byte(content)},
			}, Schema)
		},
	)
}

func TestDefaults(t *testing.T) {
	testScope(t, "").Call(func(
		historyLimit HistoryLimit,
		drainInterval DrainInterval,
		drainBatch DrainBatch,
		warnChunks OutputWarnChunks,
		fastInterval FastInterval,
		speedFactor SpeedFactor,
		eventBuffer EventBuffer,
	) {
		if historyLimit != interpreters.DefaultHistoryLimit {
			t.Fatalf("got %d", historyLimit)
		}
		if time.Duration(drainInterval) != 10*time.Millisecond {
			t.Fatalf("got %v", drainInterval)
		}
		if drainBatch != 100 {
			t.Fatalf("got %d", drainBatch)
		}
		if warnChunks != 1_000_000 {
			t.Fatalf("got %d", warnChunks)
		}
		if time.Duration(fastInterval) != 10*time.Millisecond {
			t.Fatalf("got %v", fastInterval)
		}
		if speedFactor != 0.0098 {
			t.Fatalf("got %v", speedFactor)
		}
		if eventBuffer != 64 {
			t.Fatalf("got %d", eventBuffer)
		}
	})
}

func TestFromConfig(t *testing.T) {
	testScope(t, `
history_limit: 7
drain_interval_ms: 3
drain_batch: 5
speed_factor: 0.5
`).Call(func(
		historyLimit HistoryLimit,
		drainInterval DrainInterval,
		drainBatch DrainBatch,
		speedFactor SpeedFactor,
	) {
		if historyLimit != 7 {
			t.Fatalf("got %d", historyLimit)
		}
		if time.Duration(drainInterval) != 3*time.Millisecond {
			t.Fatalf("got %v", drainInterval)
		}
		if drainBatch != 5 {
			t.Fatalf("got %d", drainBatch)
		}
		if speedFactor != 0.5 {
			t.Fatalf("got %v", speedFactor)
		}
	})
}

func TestFlagOverride(t *testing.T) {
	*historyLimitFlag = 3
	defer func() {
		*historyLimitFlag = 0
	}()
	testScope(t, `history_limit: 7`).Call(func(
		historyLimit HistoryLimit,
	) {
		if historyLimit != 3 {
			t.Fatalf("got %d", historyLimit)
		}
	})
}

func TestSchemaRejectsUnknown(t *testing.T) {
	loader := configs.NewSourceLoader([]configs.Source{
		{Name: "bad.cue", Content: []byte(`history: 1`)},
	}, Schema)
	if err := loader.Err(); err == nil {
		t.Fatal("should error")
	}
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".esoide.cue")
	if err := os.WriteFile(path, []byte("drain_batch: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	paths := ConfigPaths()
	if len(paths) == 0 || paths[0] != path {
		t.Fatalf("got %v", paths)
	}
	dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(Module),
	).Call(func(
		drainBatch DrainBatch,
	) {
		if drainBatch != 9 {
			t.Fatalf("got %d", drainBatch)
		}
	})
}
