// Package planner implements the mutation protocols over the planning
// document: project and column management, the task engine and the persisted
// filter preferences. Services receive their store and bus explicitly; there
// is no ambient state.
package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/bus"
	"github.com/itemkey/item-key/domain"
	"github.com/itemkey/item-key/store"
)

// ProjectService manages projects, their columns and the active selection.
type ProjectService struct {
	store  *store.Store
	bus    *bus.Bus
	logger *log.Logger
	clock  func() time.Time
	newID  func() string
}

// NewProjectService wires a project service to its store and bus.
func NewProjectService(st *store.Store, b *bus.Bus, logger *log.Logger) *ProjectService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ProjectService{
		store:  st,
		bus:    b,
		logger: logger,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
}

// Create adds a project with the default 4-column workflow and makes it
// active. The name must be non-empty after trimming.
func (s *ProjectService) Create(ctx context.Context, name, desc string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, ErrNameRequired
	}
	p := domain.Project{
		ID:        s.newID(),
		Name:      name,
		Desc:      strings.TrimSpace(desc),
		Columns:   domain.DefaultColumns(),
		CreatedAt: s.clock().UnixMilli(),
	}
	err := s.store.Patch(ctx, func(d *domain.Document) {
		d.Projects = append(d.Projects, p)
		d.ActiveProjectID = p.ID
	})
	if err != nil {
		return domain.Project{}, err
	}
	s.logger.WithFields(log.Fields{"project": p.ID, "name": p.Name}).Info("project created")
	s.bus.Publish(bus.Event{Topic: bus.TopicProjectChanged, ProjectID: p.ID})
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return p, nil
}

// Delete removes a project and every task referencing it. When the deleted
// project was active, the first remaining project takes over; if none remain
// a fresh "default" project is synthesized so the system never holds zero
// projects.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if s.store.Snapshot().Project(id) == nil {
		return ErrProjectNotFound
	}

	var nextActive string
	var removedTasks int
	err := s.store.Patch(ctx, func(d *domain.Document) {
		kept := d.Projects[:0]
		for _, p := range d.Projects {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		d.Projects = kept

		tasks := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ProjectID == id {
				removedTasks++
				continue
			}
			tasks = append(tasks, t)
		}
		d.Tasks = tasks

		if d.ActiveProjectID != id {
			nextActive = d.ActiveProjectID
			return
		}
		if len(d.Projects) > 0 {
			nextActive = d.Projects[0].ID
		} else {
			fallback := domain.Project{
				ID:        s.newID(),
				Name:      "default",
				Desc:      "auto created",
				Columns:   domain.DefaultColumns(),
				CreatedAt: s.clock().UnixMilli(),
			}
			d.Projects = append(d.Projects, fallback)
			nextActive = fallback.ID
		}
		d.ActiveProjectID = nextActive
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{"project": id, "tasks_removed": removedTasks}).Info("project deleted")
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	s.bus.Publish(bus.Event{Topic: bus.TopicProjectChanged, ProjectID: nextActive})
	return nil
}

// SetActive switches the active project.
func (s *ProjectService) SetActive(ctx context.Context, id string) error {
	if s.store.Snapshot().Project(id) == nil {
		return ErrProjectNotFound
	}
	err := s.store.Patch(ctx, func(d *domain.Document) {
		d.ActiveProjectID = id
	})
	if err != nil {
		return err
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicProjectChanged, ProjectID: id})
	return nil
}

// EditColumns atomically replaces a project's column set. Order follows list
// position; the column matching doneColumnID gets the done role, all others
// none. Tasks pointing at a column that no longer exists move to the new
// first column so they never dangle.
func (s *ProjectService) EditColumns(ctx context.Context, projectID string, cols []domain.Column, doneColumnID string) error {
	if len(cols) == 0 {
		return ErrNoColumns
	}
	next := make([]domain.Column, len(cols))
	for i, c := range cols {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "column"
		}
		color := strings.TrimSpace(c.Color)
		if color == "" {
			color = domain.DefaultColumnColor
		}
		id := c.ID
		if id == "" {
			id = s.newID()
		}
		role := domain.RoleNone
		if id == doneColumnID {
			role = domain.RoleDone
		}
		next[i] = domain.Column{ID: id, Name: name, Color: color, Order: i, Role: role}
	}

	valid := make(map[string]struct{}, len(next))
	for _, c := range next {
		valid[c.ID] = struct{}{}
	}

	found := false
	remapped := 0
	err := s.store.Patch(ctx, func(d *domain.Document) {
		p := d.Project(projectID)
		if p == nil {
			return
		}
		found = true
		fallback := next[0].ID
		for i := range d.Tasks {
			t := &d.Tasks[i]
			if t.ProjectID != projectID {
				continue
			}
			if _, ok := valid[t.ColumnID]; t.ColumnID == "" || !ok {
				t.ColumnID = fallback
				remapped++
			}
		}
		p.Columns = next
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrProjectNotFound
	}
	s.logger.WithFields(log.Fields{
		"project":        projectID,
		"columns":        len(next),
		"tasks_remapped": remapped,
	}).Info("columns saved")
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	s.bus.Publish(bus.Event{Topic: bus.TopicProjectChanged, ProjectID: projectID})
	return nil
}

// Summary is the per-project view-model behind the project bar.
type Summary struct {
	ID        string
	Name      string
	TaskCount int
	Active    bool
}

// Summaries lists every project with its task count, in document order.
func (s *ProjectService) Summaries() []Summary {
	snap := s.store.Snapshot()
	counts := make(map[string]int, len(snap.Projects))
	for _, t := range snap.Tasks {
		counts[t.ProjectID]++
	}
	out := make([]Summary, len(snap.Projects))
	for i, p := range snap.Projects {
		out[i] = Summary{
			ID:        p.ID,
			Name:      p.Name,
			TaskCount: counts[p.ID],
			Active:    p.ID == snap.ActiveProjectID,
		}
	}
	return out
}
