package planner

import "errors"

// Validation failures. They are surfaced to the user as messages and never
// mutate the document.
var (
	ErrNameRequired    = errors.New("name is required")
	ErrNoColumns       = errors.New("project needs at least 1 column")
	ErrLastColumn      = errors.New("cannot remove the last column")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrNoActiveProject = errors.New("select project")
)
