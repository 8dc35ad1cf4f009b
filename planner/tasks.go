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

// TaskService is the task engine: CRUD, drag-and-drop moves and the board
// derivation pipeline.
type TaskService struct {
	store  *store.Store
	bus    *bus.Bus
	logger *log.Logger
	clock  func() time.Time
	newID  func() string
}

// NewTaskService wires a task service to its store and bus.
func NewTaskService(st *store.Store, b *bus.Bus, logger *log.Logger) *TaskService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TaskService{
		store:  st,
		bus:    b,
		logger: logger,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
}

// TaskFields carries user-supplied task attributes. Tags is the raw
// comma-separated string as entered.
type TaskFields struct {
	Name     string
	Desc     string
	Priority domain.Priority
	Deadline string
	Tags     string

	// Edit only. ProjectID moves the task between projects; ColumnID is
	// honored when the project stays the same.
	ProjectID string
	ColumnID  string
}

// Create adds a task to the project's first column by order. Priority
// defaults to mid; tags are trimmed and capped.
func (s *TaskService) Create(ctx context.Context, projectID string, f TaskFields) (domain.Task, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return domain.Task{}, ErrNameRequired
	}
	snap := s.store.Snapshot()
	p := snap.Project(projectID)
	if p == nil {
		return domain.Task{}, ErrProjectNotFound
	}
	first, ok := p.FirstColumn()
	if !ok {
		return domain.Task{}, ErrNoColumns
	}
	prio := f.Priority
	if !prio.Valid() {
		prio = domain.PriorityMid
	}
	t := domain.Task{
		ID:        s.newID(),
		ProjectID: projectID,
		ColumnID:  first.ID,
		Name:      name,
		Desc:      strings.TrimSpace(f.Desc),
		Priority:  prio,
		Deadline:  strings.TrimSpace(f.Deadline),
		Tags:      domain.ParseTags(f.Tags),
		CreatedAt: s.clock().UnixMilli(),
	}
	err := s.store.Patch(ctx, func(d *domain.Document) {
		d.Tasks = append(d.Tasks, t)
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.logger.WithFields(log.Fields{"task": t.ID, "project": projectID}).Info("task created")
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return t, nil
}

// Edit rewrites a task's fields. Changing the project relocates the task to
// the target project's first column; within the same project the supplied
// ColumnID is honored as-is.
func (s *TaskService) Edit(ctx context.Context, id string, f TaskFields) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return ErrNameRequired
	}
	prio := f.Priority
	if !prio.Valid() {
		prio = domain.PriorityMid
	}

	found := false
	err := s.store.Patch(ctx, func(d *domain.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		found = true
		t.Name = name
		t.Desc = strings.TrimSpace(f.Desc)
		t.Priority = prio
		t.Deadline = strings.TrimSpace(f.Deadline)
		t.Tags = domain.ParseTags(f.Tags)

		prev := t.ProjectID
		next := f.ProjectID
		if next == "" {
			next = prev
		}
		t.ProjectID = next

		if prev != next {
			if p := d.Project(next); p != nil {
				if first, ok := p.FirstColumn(); ok {
					t.ColumnID = first.ID
				}
			}
			return
		}
		if f.ColumnID != "" {
			t.ColumnID = f.ColumnID
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return nil
}

// Delete removes a task unconditionally. Confirmation is the caller's
// concern.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	found := false
	err := s.store.Patch(ctx, func(d *domain.Document) {
		kept := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		d.Tasks = kept
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound
	}
	s.logger.WithField("task", id).Info("task deleted")
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return nil
}

// Move rewrites the task's column, the drag-and-drop path within a board.
// The target is assumed to belong to the task's project; cross-project drags
// go through MoveToProject.
func (s *TaskService) Move(ctx context.Context, id, columnID string) error {
	found := false
	err := s.store.Patch(ctx, func(d *domain.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		found = true
		t.ColumnID = columnID
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return nil
}

// MoveToProject reassigns a task to another project, landing it in that
// project's first column when the project actually changes (or when the task
// had no column at all).
func (s *TaskService) MoveToProject(ctx context.Context, id, projectID string) error {
	if projectID == "" {
		return ErrProjectNotFound
	}
	found := false
	err := s.store.Patch(ctx, func(d *domain.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		found = true
		prev := t.ProjectID
		t.ProjectID = projectID

		p := d.Project(projectID)
		if p == nil {
			return
		}
		first, ok := p.FirstColumn()
		if !ok {
			return
		}
		if prev != projectID || t.ColumnID == "" {
			t.ColumnID = first.ID
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicTasksChanged})
	return nil
}
