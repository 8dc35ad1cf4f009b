package planner

import (
	"context"
	"strings"

	"github.com/itemkey/item-key/domain"
)

// Filters returns the persisted filter configuration.
func (s *TaskService) Filters() domain.TaskFilters {
	return s.store.Snapshot().UI.TaskFilters
}

// SetFilters persists a full filter configuration. Unrecognized enum values
// fall back to their defaults, mirroring what migration does for saved
// documents.
func (s *TaskService) SetFilters(ctx context.Context, f domain.TaskFilters) error {
	f.Query = strings.TrimSpace(f.Query)
	f.Tags = strings.TrimSpace(f.Tags)
	if !f.Priority.Valid() {
		f.Priority = domain.PriorityFilterAll
	}
	if !f.Deadline.Valid() {
		f.Deadline = domain.DeadlineAll
	}
	if !f.Sort.Valid() {
		f.Sort = domain.SortDefault
	}
	return s.store.Patch(ctx, func(d *domain.Document) {
		d.UI.TaskFilters = f
	})
}

// SetSearch persists just the free-text query.
func (s *TaskService) SetSearch(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	return s.store.Patch(ctx, func(d *domain.Document) {
		d.UI.TaskFilters.Query = q
	})
}

// ClearFilters resets every filter to its default.
func (s *TaskService) ClearFilters(ctx context.Context) error {
	return s.store.Patch(ctx, func(d *domain.Document) {
		d.UI.TaskFilters = domain.DefaultFilters()
	})
}

// SetView persists the active view. Unknown views fall back to the board.
func (s *TaskService) SetView(ctx context.Context, v domain.View) error {
	if !v.Valid() {
		v = domain.ViewBoard
	}
	return s.store.Patch(ctx, func(d *domain.Document) {
		d.UI.View = v
	})
}
