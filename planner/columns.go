package planner

import (
	"context"
	"strings"

	"github.com/itemkey/item-key/domain"
)

// ColumnDraft stages column edits for one project. All operations work on a
// private copy; nothing reaches the store until Commit, so abandoned edits
// leave no trace.
type ColumnDraft struct {
	svc       *ProjectService
	projectID string
	rows      []domain.Column
	doneID    string
}

// DraftColumns opens a staged copy of the project's current columns, in
// display order.
func (s *ProjectService) DraftColumns(projectID string) (*ColumnDraft, error) {
	snap := s.store.Snapshot()
	p := snap.Project(projectID)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	d := &ColumnDraft{svc: s, projectID: projectID, rows: p.SortedColumns()}
	for _, c := range d.rows {
		if c.Role == domain.RoleDone {
			d.doneID = c.ID
			break
		}
	}
	return d, nil
}

// Rows returns a copy of the staged rows in their current order.
func (d *ColumnDraft) Rows() []domain.Column {
	out := make([]domain.Column, len(d.rows))
	copy(out, d.rows)
	return out
}

// DoneID returns the staged done-role column id, if any.
func (d *ColumnDraft) DoneID() string { return d.doneID }

// Add appends a new row. Empty names become "column".
func (d *ColumnDraft) Add(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "column"
	}
	id := d.svc.newID()
	d.rows = append(d.rows, domain.Column{ID: id, Name: name, Color: domain.DefaultColumnColor})
	return id
}

// Rename changes a staged row's name.
func (d *ColumnDraft) Rename(id, name string) {
	if i := d.index(id); i >= 0 {
		d.rows[i].Name = name
	}
}

// Recolor changes a staged row's accent color.
func (d *ColumnDraft) Recolor(id, color string) {
	if i := d.index(id); i >= 0 {
		d.rows[i].Color = color
	}
}

// MoveUp swaps the row with its predecessor.
func (d *ColumnDraft) MoveUp(id string) {
	if i := d.index(id); i > 0 {
		d.rows[i-1], d.rows[i] = d.rows[i], d.rows[i-1]
	}
}

// MoveDown swaps the row with its successor.
func (d *ColumnDraft) MoveDown(id string) {
	if i := d.index(id); i >= 0 && i < len(d.rows)-1 {
		d.rows[i], d.rows[i+1] = d.rows[i+1], d.rows[i]
	}
}

// Remove deletes a staged row. The last remaining row cannot be removed.
func (d *ColumnDraft) Remove(id string) error {
	i := d.index(id)
	if i < 0 {
		return nil
	}
	if len(d.rows) <= 1 {
		return ErrLastColumn
	}
	d.rows = append(d.rows[:i:i], d.rows[i+1:]...)
	return nil
}

// SetDone marks which staged row carries the done role on commit.
func (d *ColumnDraft) SetDone(id string) {
	d.doneID = id
}

// Commit writes the staged rows through EditColumns.
func (d *ColumnDraft) Commit(ctx context.Context) error {
	return d.svc.EditColumns(ctx, d.projectID, d.rows, d.doneID)
}

func (d *ColumnDraft) index(id string) int {
	for i, c := range d.rows {
		if c.ID == id {
			return i
		}
	}
	return -1
}
