package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Role classifies a column semantically, independent of its display name.
// Deadline logic treats done-role columns specially.
type Role string

const (
	RoleTodo  Role = "todo"
	RoleDoing Role = "doing"
	RoleDone  Role = "done"
	RoleNone  Role = ""
)

// DefaultColumnColor is used for columns created without an explicit color.
const DefaultColumnColor = "#111111"

// Column is a named stage within a project's workflow.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
	Role  Role   `json:"role,omitempty"`
}

// Project is the top-level container for a workflow and its tasks. It
// exclusively owns its column list; tasks reference it by ID.
type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	Columns   []Column `json:"columns"`
	CreatedAt int64    `json:"createdAt"`
}

// DefaultColumns returns the starter 4-column workflow assigned to new
// projects and to projects whose saved column list is missing.
func DefaultColumns() []Column {
	return []Column{
		{ID: uuid.NewString(), Name: "backlog", Role: RoleTodo, Color: "#111111", Order: 0},
		{ID: uuid.NewString(), Name: "in progress", Role: RoleDoing, Color: "#AA5F00", Order: 1},
		{ID: uuid.NewString(), Name: "review", Role: RoleDoing, Color: "#005AAA", Order: 2},
		{ID: uuid.NewString(), Name: "done", Role: RoleDone, Color: "#008C46", Order: 3},
	}
}

// SortedColumns returns a copy of the project's columns in display order.
// Ties on Order keep their array position.
func (p *Project) SortedColumns() []Column {
	cols := make([]Column, len(p.Columns))
	copy(cols, p.Columns)
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Order < cols[j].Order })
	return cols
}

// FirstColumn returns the first column by display order.
func (p *Project) FirstColumn() (Column, bool) {
	cols := p.SortedColumns()
	if len(cols) == 0 {
		return Column{}, false
	}
	return cols[0], true
}

// Column looks up a column by ID.
func (p *Project) Column(id string) (Column, bool) {
	for _, c := range p.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Clone returns an independent copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Columns = make([]Column, len(p.Columns))
	copy(out.Columns, p.Columns)
	return out
}
