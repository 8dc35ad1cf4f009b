package store

import (
	"context"
	"io"
	"testing"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/domain"
	"github.com/itemkey/item-key/storage"
)

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	s, err := New(context.Background(), kv, quietLogger())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func TestNewWithEmptyBackendStartsDefault(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	snap := s.Snapshot()
	if len(snap.Projects) != 0 || len(snap.Tasks) != 0 {
		t.Fatalf("expected empty default document, got %+v", snap)
	}
	if snap.UI.TaskFilters.Sort != domain.SortDefault || snap.UI.View != domain.ViewBoard {
		t.Fatalf("unexpected default UI state: %+v", snap.UI)
	}
}

func TestNewReplacesCorruptDocument(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Seed([]byte(`{"projects": "not-a-list"`))
	s := newTestStore(t, kv)
	snap := s.Snapshot()
	if len(snap.Projects) != 0 {
		t.Fatalf("corrupt document should become the default, got %+v", snap)
	}
	// the repaired default must have been persisted
	data, ok, err := kv.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected persisted document, ok=%v err=%v", ok, err)
	}
	var doc domain.Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		t.Fatalf("persisted document unreadable: %v", err)
	}
}

func TestNewMigratesPersistedDocument(t *testing.T) {
	seed := &domain.Document{
		Projects: []domain.Project{{
			ID:   "p1",
			Name: "demo",
			Columns: []domain.Column{
				{ID: "c-todo", Name: "backlog", Role: domain.RoleTodo, Order: 0},
				{ID: "c-doing", Name: "doing", Role: domain.RoleDoing, Order: 1},
			},
		}},
		Tasks: []domain.Task{{ID: "t1", ProjectID: "p1", Status: "in_progress", CreatedAt: 1}},
	}
	data, err := sonic.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	kv := storage.NewMemoryKV()
	kv.Seed(data)

	s := newTestStore(t, kv)
	snap := s.Snapshot()
	if snap.Tasks[0].ColumnID != "c-doing" {
		t.Fatalf("legacy task not migrated: %+v", snap.Tasks[0])
	}
	if snap.ActiveProjectID != "p1" {
		t.Fatalf("active project not selected: %q", snap.ActiveProjectID)
	}

	// reloading must find the repaired shape and repair nothing further
	again := newTestStore(t, kv)
	if again.Snapshot().Tasks[0].ColumnID != "c-doing" {
		t.Fatalf("migration result did not persist")
	}
}

func TestPatchPersists(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv)
	err := s.Patch(context.Background(), func(d *domain.Document) {
		d.Projects = append(d.Projects, domain.Project{
			ID: "p1", Name: "demo", Columns: domain.DefaultColumns(), CreatedAt: 1,
		})
		d.ActiveProjectID = "p1"
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	reloaded := newTestStore(t, kv)
	snap := reloaded.Snapshot()
	if len(snap.Projects) != 1 || snap.Projects[0].ID != "p1" {
		t.Fatalf("patched state not persisted: %+v", snap.Projects)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	if err := s.EnsureSeed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap := s.Snapshot()
	snap.Projects[0].Name = "hacked"
	snap.Projects[0].Columns[0].Name = "hacked"

	fresh := s.Snapshot()
	if fresh.Projects[0].Name == "hacked" || fresh.Projects[0].Columns[0].Name == "hacked" {
		t.Fatalf("snapshot mutation leaked into the store")
	}
}

func TestEnsureSeed(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	if err := s.EnsureSeed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Projects) != 1 || snap.Projects[0].Name != "default" {
		t.Fatalf("expected starter project, got %+v", snap.Projects)
	}
	if snap.ActiveProjectID != snap.Projects[0].ID {
		t.Fatalf("starter project not active")
	}

	// seeding again must not add a second project
	if err := s.EnsureSeed(context.Background()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if got := len(s.Snapshot().Projects); got != 1 {
		t.Fatalf("reseed duplicated projects: %d", got)
	}
}
