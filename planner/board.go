package planner

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/domain"
)

// Board derives the active project's board using the persisted filters.
func (s *TaskService) Board() (domain.Board, error) {
	snap := s.store.Snapshot()
	if snap.ActiveProjectID == "" {
		return domain.Board{}, ErrNoActiveProject
	}
	return s.build(snap, snap.ActiveProjectID, snap.UI.TaskFilters), nil
}

// BoardFor derives a board for an explicit project and filter configuration.
func (s *TaskService) BoardFor(projectID string, f domain.TaskFilters) (domain.Board, error) {
	snap := s.store.Snapshot()
	if snap.Project(projectID) == nil {
		return domain.Board{}, ErrProjectNotFound
	}
	return s.build(snap, projectID, f), nil
}

func (s *TaskService) build(snap *domain.Document, projectID string, f domain.TaskFilters) domain.Board {
	start := time.Now()
	board := domain.BuildBoard(snap, projectID, f, s.clock())

	shown := 0
	for _, col := range board.Columns {
		shown += col.TaskCount
	}
	s.logger.WithFields(log.Fields{
		"project":     projectID,
		"columns":     len(board.Columns),
		"tasks_shown": shown,
		"derive_ms":   float64(time.Since(start)) / float64(time.Millisecond),
	}).Debug("board derived")
	return board
}
