package planner

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/bus"
	"github.com/itemkey/item-key/storage"
	"github.com/itemkey/item-key/store"
)

// fixture bundles the wired services over an in-memory backend with a
// deterministic clock and id sequence.
type fixture struct {
	store    *store.Store
	bus      *bus.Bus
	projects *ProjectService
	tasks    *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.New()
	logger.SetOutput(io.Discard)

	st, err := store.New(context.Background(), storage.NewMemoryKV(), logger)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	b := bus.New()

	ids := 0
	nextID := func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	clock := func() time.Time { return time.UnixMilli(1_700_000_000_000) }

	ps := NewProjectService(st, b, logger)
	ps.clock = clock
	ps.newID = nextID
	ts := NewTaskService(st, b, logger)
	ts.clock = clock
	ts.newID = nextID

	return &fixture{store: st, bus: b, projects: ps, tasks: ts}
}

// record collects published topics in delivery order.
func (f *fixture) record(t *testing.T) *[]bus.Topic {
	t.Helper()
	var got []bus.Topic
	for _, topic := range []bus.Topic{bus.TopicProjectChanged, bus.TopicTasksChanged} {
		topic := topic
		sub := f.bus.Subscribe(topic, func(ev bus.Event) { got = append(got, ev.Topic) })
		t.Cleanup(sub.Close)
	}
	return &got
}
