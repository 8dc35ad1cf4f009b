package store

import (
	"encoding/json"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/domain"
)

// legacyStatusRoles maps the pre-column task status field to a column role.
var legacyStatusRoles = map[string]domain.Role{
	"backlog":     domain.RoleTodo,
	"in_progress": domain.RoleDoing,
	"review":      domain.RoleDoing,
	"done":        domain.RoleDone,
}

// Report counts the repairs one migration pass performed. A zero report means
// the document was already in its normalized shape.
type Report struct {
	CoercedFilters   int
	DefaultedColumns int
	NormalizedOrders int
	TranslatedTasks  int
	ReassignedTasks  int
	BackfilledTimes  int
	RepairedActive   int
}

// Clean reports whether nothing needed repair.
func (r Report) Clean() bool {
	return r == Report{}
}

// Fields renders the report for structured logging.
func (r Report) Fields() log.Fields {
	return log.Fields{
		"coerced_filters":   r.CoercedFilters,
		"defaulted_columns": r.DefaultedColumns,
		"normalized_orders": r.NormalizedOrders,
		"translated_tasks":  r.TranslatedTasks,
		"reassigned_tasks":  r.ReassignedTasks,
		"backfilled_times":  r.BackfilledTimes,
		"repaired_active":   r.RepairedActive,
	}
}

// Migrate upgrades and repairs a loaded document in place. It is idempotent:
// running it on its own output changes nothing. Old documents written by
// earlier versions (including status-based tasks) come out in the current
// shape; referential violations are healed rather than rejected.
func Migrate(doc *domain.Document, now time.Time) Report {
	var rep Report

	if doc.Projects == nil {
		doc.Projects = []domain.Project{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []domain.Task{}
	}
	if doc.Events == nil {
		doc.Events = []json.RawMessage{}
	}

	rep.CoercedFilters = coerceUI(&doc.UI)

	for i := range doc.Projects {
		p := &doc.Projects[i]
		if len(p.Columns) == 0 {
			p.Columns = domain.DefaultColumns()
			rep.DefaultedColumns++
			continue
		}
		rep.NormalizedOrders += normalizeColumnOrder(p.Columns)
	}

	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.CreatedAt == 0 {
			t.CreatedAt = now.UnixMilli()
			rep.BackfilledTimes++
		}
		proj := doc.Project(t.ProjectID)
		if proj == nil || len(proj.Columns) == 0 {
			continue
		}
		if t.ColumnID == "" {
			t.ColumnID = columnForLegacyStatus(proj, t.Status).ID
			t.Status = ""
			rep.TranslatedTasks++
			continue
		}
		if _, ok := proj.Column(t.ColumnID); !ok {
			first, _ := proj.FirstColumn()
			t.ColumnID = first.ID
			rep.ReassignedTasks++
		}
	}

	if doc.ActiveProjectID != "" && doc.Project(doc.ActiveProjectID) == nil {
		doc.ActiveProjectID = ""
		rep.RepairedActive++
	}
	if doc.ActiveProjectID == "" && len(doc.Projects) > 0 {
		doc.ActiveProjectID = doc.Projects[0].ID
		rep.RepairedActive++
	}

	return rep
}

// coerceUI resets unrecognized persisted filter values to their safe
// defaults. Unknown values are repaired, never rejected.
func coerceUI(ui *domain.UIState) int {
	coerced := 0
	f := &ui.TaskFilters
	if !f.Priority.Valid() {
		f.Priority = domain.PriorityFilterAll
		coerced++
	}
	if !f.Deadline.Valid() {
		f.Deadline = domain.DeadlineAll
		coerced++
	}
	if !f.Sort.Valid() {
		f.Sort = domain.SortDefault
		coerced++
	}
	if !ui.View.Valid() {
		ui.View = domain.ViewBoard
		coerced++
	}
	return coerced
}

// normalizeColumnOrder sorts columns by their saved order, breaking ties by
// array position, then rewrites order to the dense index sequence. Returns
// how many columns moved or changed order value.
func normalizeColumnOrder(cols []domain.Column) int {
	changed := 0
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Order < cols[j].Order })
	for i := range cols {
		if cols[i].Order != i {
			cols[i].Order = i
			changed++
		}
	}
	return changed
}

// columnForLegacyStatus picks the column a status-based task belongs in: the
// first column whose role matches the translated status, or the project's
// first column when none does.
func columnForLegacyStatus(proj *domain.Project, status string) domain.Column {
	role, ok := legacyStatusRoles[status]
	if !ok {
		role = domain.RoleTodo
	}
	cols := proj.SortedColumns()
	for _, c := range cols {
		if c.Role == role {
			return c
		}
	}
	return cols[0]
}
