package domain

import "encoding/json"

// SortMode selects how tasks are ordered within a column.
type SortMode string

const (
	SortDefault  SortMode = "default"
	SortDeadline SortMode = "deadline"
	SortPriority SortMode = "priority"
	SortNewest   SortMode = "newest"
)

func (m SortMode) Valid() bool {
	switch m {
	case SortDefault, SortDeadline, SortPriority, SortNewest:
		return true
	}
	return false
}

// PriorityFilter is either a concrete priority or "all".
type PriorityFilter string

const PriorityFilterAll PriorityFilter = "all"

func (f PriorityFilter) Valid() bool {
	return f == PriorityFilterAll || Priority(f).Valid()
}

// Matches reports whether a task priority passes the filter.
func (f PriorityFilter) Matches(p Priority) bool {
	return f == PriorityFilterAll || Priority(f) == p
}

// DeadlineFilter buckets tasks by how their deadline relates to today.
type DeadlineFilter string

const (
	DeadlineAll     DeadlineFilter = "all"
	DeadlineToday   DeadlineFilter = "today"
	DeadlineOverdue DeadlineFilter = "overdue"
	DeadlineWeek    DeadlineFilter = "week"
)

func (f DeadlineFilter) Valid() bool {
	switch f {
	case DeadlineAll, DeadlineToday, DeadlineOverdue, DeadlineWeek:
		return true
	}
	return false
}

// View names the active screen persisted between sessions.
type View string

const (
	ViewBoard    View = "board"
	ViewSchedule View = "schedule"
)

func (v View) Valid() bool {
	return v == ViewBoard || v == ViewSchedule
}

// TaskFilters is the persisted board filter configuration.
type TaskFilters struct {
	Query    string         `json:"q"`
	Tags     string         `json:"tags"`
	Priority PriorityFilter `json:"priority"`
	Deadline DeadlineFilter `json:"deadline"`
	Sort     SortMode       `json:"sort"`
}

// DefaultFilters returns the filter state used for fresh documents and for
// repairing unrecognized saved values.
func DefaultFilters() TaskFilters {
	return TaskFilters{
		Priority: PriorityFilterAll,
		Deadline: DeadlineAll,
		Sort:     SortDefault,
	}
}

// UIState holds persisted UI preferences. Not business data, but saved so
// sessions resume their configuration.
type UIState struct {
	TaskFilters TaskFilters `json:"taskFilters"`
	View        View        `json:"view"`
}

// Document is the single persisted source of truth: every project, task and
// UI preference lives here. The events list belongs to the schedule feature
// and is carried verbatim so saved documents round-trip without loss.
type Document struct {
	ActiveProjectID string            `json:"activeProjectId"`
	Projects        []Project         `json:"projects"`
	Tasks           []Task            `json:"tasks"`
	Events          []json.RawMessage `json:"events"`
	UI              UIState           `json:"ui"`
}

// DefaultDocument returns the document used when nothing valid was persisted.
func DefaultDocument() *Document {
	return &Document{
		Projects: []Project{},
		Tasks:    []Task{},
		Events:   []json.RawMessage{},
		UI: UIState{
			TaskFilters: DefaultFilters(),
			View:        ViewBoard,
		},
	}
}

// Project returns a pointer to the project with the given ID, or nil. The
// pointer addresses the receiver's backing array, so it is only safe to hold
// inside a patch mutator.
func (d *Document) Project(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// Task returns a pointer to the task with the given ID, or nil. Same aliasing
// caveat as Project.
func (d *Document) Task(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Clone returns a deep, independent copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		ActiveProjectID: d.ActiveProjectID,
		UI:              d.UI,
		Projects:        make([]Project, len(d.Projects)),
		Tasks:           make([]Task, len(d.Tasks)),
		Events:          make([]json.RawMessage, len(d.Events)),
	}
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	for i, t := range d.Tasks {
		out.Tasks[i] = t.Clone()
	}
	for i, ev := range d.Events {
		out.Events[i] = append(json.RawMessage(nil), ev...)
	}
	return out
}
