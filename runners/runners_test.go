package runners

import (
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/ideconfigs"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/modes"
	"github.com/reusee/esoide/outputs"
)

func testScope(t *testing.T) dscope.Scope {
	return dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(ideconfigs.Module),
		new(outputs.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader(nil, ideconfigs.Schema)
		},
	)
}

const testTimeout = time.Second * 10

func expectEvent(t *testing.T, events <-chan Event, kind EventKind) Event {
	t.Helper()
	select {
	case event := <-events:
		if event.Kind != kind {
			t.Fatalf("got %v, want %v", event, kind)
		}
		return event
	case <-time.After(testTimeout):
		t.Fatalf("timeout waiting for %v", kind)
	}
	panic("unreachable")
}

func expectNoEvent(t *testing.T, events <-chan Event) {
	t.Helper()
	select {
	case event := <-events:
		t.Fatalf("got %v", event)
	case <-time.After(time.Millisecond * 100):
	}
}
