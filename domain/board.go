package domain

import (
	"strings"
	"time"
)

// Card is the per-task view-model handed to the presentation layer.
type Card struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MetaSummary string `json:"metaSummary"`
}

// BoardColumn is one rendered column: its identity, accent color and the
// filtered, sorted cards it holds.
type BoardColumn struct {
	ColumnID   string `json:"columnId"`
	ColumnName string `json:"columnName"`
	Color      string `json:"color"`
	Role       Role   `json:"role,omitempty"`
	TaskCount  int    `json:"taskCount"`
	Tasks      []Card `json:"orderedTasks"`
}

// Board is the column-partitioned, filtered, sorted view of one project's
// tasks.
type Board struct {
	ProjectID string        `json:"projectId"`
	Columns   []BoardColumn `json:"columns"`
}

// BuildBoard derives the board view for one project. It is a pure function of
// the document, the filter state and the reference time; repeated calls with
// the same inputs produce identical output.
func BuildBoard(doc *Document, projectID string, f TaskFilters, now time.Time) Board {
	board := Board{ProjectID: projectID}

	proj := doc.Project(projectID)
	if proj == nil {
		return board
	}
	cols := proj.SortedColumns()

	roleByColumn := make(map[string]Role, len(cols))
	for _, c := range cols {
		roleByColumn[c.ID] = c.Role
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	wantTags := ParseFilterTags(f.Tags)
	today := StartOfDay(now)
	weekEnd := AddDays(today, 7)

	var filtered []Task
	for _, t := range doc.Tasks {
		if t.ProjectID != projectID {
			continue
		}
		if !matchesQuery(t, query) {
			continue
		}
		if !matchesTags(t, wantTags) {
			continue
		}
		if !f.Priority.Matches(t.Priority) {
			continue
		}
		if !matchesDeadline(t, f.Deadline, roleByColumn[t.ColumnID], today, weekEnd) {
			continue
		}
		filtered = append(filtered, t)
	}

	board.Columns = make([]BoardColumn, 0, len(cols))
	for _, col := range cols {
		var items []Task
		for _, t := range filtered {
			if t.ColumnID == col.ID {
				items = append(items, t)
			}
		}
		SortTasks(items, f.Sort)

		cards := make([]Card, len(items))
		for i, t := range items {
			cards[i] = Card{ID: t.ID, Name: t.Name, MetaSummary: MetaSummary(t)}
		}
		board.Columns = append(board.Columns, BoardColumn{
			ColumnID:   col.ID,
			ColumnName: col.Name,
			Color:      col.Color,
			Role:       col.Role,
			TaskCount:  len(cards),
			Tasks:      cards,
		})
	}
	return board
}

// matchesQuery does a case-insensitive substring search over name,
// description and tags.
func matchesQuery(t Task, query string) bool {
	if query == "" {
		return true
	}
	hay := strings.ToLower(t.Name + " " + t.Desc + " " + strings.Join(t.Tags, " "))
	return strings.Contains(hay, query)
}

// matchesTags requires every requested tag to be present (conjunctive).
func matchesTags(t Task, want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		have[strings.ToLower(tag)] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// matchesDeadline applies the deadline bucket relative to today. Tasks whose
// deadlines do not parse never match a non-"all" bucket. Overdue excludes
// tasks sitting in a done-role column.
func matchesDeadline(t Task, bucket DeadlineFilter, role Role, today, weekEnd time.Time) bool {
	if bucket == DeadlineAll {
		return true
	}
	d, ok := ParseDeadline(t.Deadline, today.Location())
	if !ok {
		return false
	}
	switch bucket {
	case DeadlineToday:
		return d.Equal(today)
	case DeadlineOverdue:
		return role != RoleDone && d.Before(today)
	case DeadlineWeek:
		return !d.Before(today) && !d.After(weekEnd)
	}
	return false
}

// MetaSummary renders the one-line card summary shown under a task name.
func MetaSummary(t Task) string {
	var parts []string
	if t.Priority != "" {
		parts = append(parts, "priority: "+string(t.Priority))
	}
	if t.Deadline != "" {
		parts = append(parts, "deadline: "+t.Deadline)
	}
	if len(t.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(t.Tags, " · "))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " • ")
}
