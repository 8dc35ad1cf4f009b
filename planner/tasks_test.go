package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/itemkey/item-key/domain"
)

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")

	task, err := f.tasks.Create(ctx, p.ID, TaskFields{
		Name:     "  ship it  ",
		Desc:     " release ",
		Priority: "urgent",
		Deadline: " 2026-09-01 ",
		Tags:     "Work, , release",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Name != "ship it" || task.Desc != "release" || task.Deadline != "2026-09-01" {
		t.Fatalf("fields not trimmed: %+v", task)
	}
	if task.Priority != domain.PriorityMid {
		t.Fatalf("priority = %q, want mid fallback", task.Priority)
	}
	if !reflect.DeepEqual(task.Tags, []string{"Work", "release"}) {
		t.Fatalf("tags = %v", task.Tags)
	}
	first, _ := p.FirstColumn()
	if task.ColumnID != first.ID {
		t.Fatalf("column = %q, want first column %q", task.ColumnID, first.ID)
	}
	if task.CreatedAt != 1_700_000_000_000 {
		t.Fatalf("createdAt = %d", task.CreatedAt)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")

	if _, err := f.tasks.Create(ctx, p.ID, TaskFields{Name: "  "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	if _, err := f.tasks.Create(ctx, "missing", TaskFields{Name: "x"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestEditTaskSameProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")
	second := p.Columns[1]
	task, _ := f.tasks.Create(ctx, p.ID, TaskFields{Name: "draft"})

	err := f.tasks.Edit(ctx, task.ID, TaskFields{
		Name:     "final",
		Priority: domain.PriorityHigh,
		ColumnID: second.ID,
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got := f.store.Snapshot().Task(task.ID)
	if got.Name != "final" || got.Priority != domain.PriorityHigh {
		t.Fatalf("edit lost: %+v", got)
	}
	if got.ColumnID != second.ID {
		t.Fatalf("column = %q, want honored %q", got.ColumnID, second.ID)
	}
	if got.ProjectID != p.ID {
		t.Fatalf("project changed unexpectedly")
	}
}

func TestEditTaskAcrossProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1, _ := f.projects.Create(ctx, "first", "")
	p2, _ := f.projects.Create(ctx, "second", "")
	task, _ := f.tasks.Create(ctx, p1.ID, TaskFields{Name: "mover"})

	err := f.tasks.Edit(ctx, task.ID, TaskFields{
		Name:      "mover",
		ProjectID: p2.ID,
		ColumnID:  task.ColumnID, // stale, belongs to p1
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got := f.store.Snapshot().Task(task.ID)
	first, _ := p2.FirstColumn()
	if got.ProjectID != p2.ID || got.ColumnID != first.ID {
		t.Fatalf("relocation failed: %+v", got)
	}
}

func TestEditUnknownTask(t *testing.T) {
	f := newFixture(t)
	if err := f.tasks.Edit(context.Background(), "missing", TaskFields{Name: "x"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")
	task, _ := f.tasks.Create(ctx, p.ID, TaskFields{Name: "gone"})

	if err := f.tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.store.Snapshot().Task(task.ID) != nil {
		t.Fatalf("task still present")
	}
	if err := f.tasks.Delete(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestMoveTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")
	task, _ := f.tasks.Create(ctx, p.ID, TaskFields{Name: "drag"})
	target := p.Columns[2]

	events := f.record(t)
	if err := f.tasks.Move(ctx, task.ID, target.ID); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := f.store.Snapshot().Task(task.ID).ColumnID; got != target.ID {
		t.Fatalf("column = %q, want %q", got, target.ID)
	}
	if len(*events) != 1 {
		t.Fatalf("events = %v, want single tasksChanged", *events)
	}
}

func TestMoveToProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1, _ := f.projects.Create(ctx, "first", "")
	p2, _ := f.projects.Create(ctx, "second", "")
	task, _ := f.tasks.Create(ctx, p1.ID, TaskFields{Name: "mover"})

	if err := f.tasks.MoveToProject(ctx, task.ID, p2.ID); err != nil {
		t.Fatalf("MoveToProject: %v", err)
	}
	got := f.store.Snapshot().Task(task.ID)
	first, _ := p2.FirstColumn()
	if got.ProjectID != p2.ID || got.ColumnID != first.ID {
		t.Fatalf("relocation failed: %+v", got)
	}

	// Same project again keeps the column.
	f.tasks.Move(ctx, task.ID, p2.Columns[1].ID)
	if err := f.tasks.MoveToProject(ctx, task.ID, p2.ID); err != nil {
		t.Fatalf("MoveToProject: %v", err)
	}
	if got := f.store.Snapshot().Task(task.ID).ColumnID; got != p2.Columns[1].ID {
		t.Fatalf("column = %q, want unchanged", got)
	}

	if err := f.tasks.MoveToProject(ctx, task.ID, ""); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestFiltersRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.tasks.SetFilters(ctx, domain.TaskFilters{
		Query:    "  report ",
		Tags:     " work ",
		Priority: "bogus",
		Deadline: "yesterday",
		Sort:     "random",
	})
	if err != nil {
		t.Fatalf("SetFilters: %v", err)
	}
	got := f.tasks.Filters()
	want := domain.TaskFilters{
		Query:    "report",
		Tags:     "work",
		Priority: domain.PriorityFilterAll,
		Deadline: domain.DeadlineAll,
		Sort:     domain.SortDefault,
	}
	if got != want {
		t.Fatalf("filters = %+v, want %+v", got, want)
	}

	if err := f.tasks.SetSearch(ctx, "  urgent  "); err != nil {
		t.Fatalf("SetSearch: %v", err)
	}
	if got := f.tasks.Filters().Query; got != "urgent" {
		t.Fatalf("query = %q", got)
	}

	if err := f.tasks.ClearFilters(ctx); err != nil {
		t.Fatalf("ClearFilters: %v", err)
	}
	if got := f.tasks.Filters(); got != domain.DefaultFilters() {
		t.Fatalf("filters after clear = %+v", got)
	}
}

func TestSetView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.tasks.SetView(ctx, domain.ViewSchedule); err != nil {
		t.Fatalf("SetView: %v", err)
	}
	if got := f.store.Snapshot().UI.View; got != domain.ViewSchedule {
		t.Fatalf("view = %q", got)
	}
	if err := f.tasks.SetView(ctx, "table"); err != nil {
		t.Fatalf("SetView: %v", err)
	}
	if got := f.store.Snapshot().UI.View; got != domain.ViewBoard {
		t.Fatalf("view = %q, want board fallback", got)
	}
}

func TestBoardRequiresActiveProject(t *testing.T) {
	f := newFixture(t)
	if _, err := f.tasks.Board(); !errors.Is(err, ErrNoActiveProject) {
		t.Fatalf("err = %v, want ErrNoActiveProject", err)
	}
}

func TestBoardUsesPersistedFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, "work", "")
	f.tasks.Create(ctx, p.ID, TaskFields{Name: "write report"})
	f.tasks.Create(ctx, p.ID, TaskFields{Name: "buy milk"})
	f.tasks.SetSearch(ctx, "report")

	board, err := f.tasks.Board()
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	shown := 0
	for _, col := range board.Columns {
		shown += col.TaskCount
	}
	if shown != 1 {
		t.Fatalf("tasks shown = %d, want filter applied", shown)
	}

	if _, err := f.tasks.BoardFor("missing", domain.DefaultFilters()); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}
