package domain

import "strings"

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityMid  Priority = "mid"
	PriorityHigh Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMid, PriorityHigh:
		return true
	}
	return false
}

// Rank maps a priority to its sort weight. Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMid:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// MaxTags caps how many tags a task may carry.
const MaxTags = 8

// Task represents a single board item. ColumnID is a foreign key into the
// owning project's column list; membership is computed, never stored twice.
type Task struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	ColumnID  string   `json:"columnId,omitempty"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	Priority  Priority `json:"priority"`
	Deadline  string   `json:"deadline,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt int64    `json:"createdAt"`

	// Status is the pre-column workflow field written by old documents.
	// Migration translates it into a ColumnID and clears it.
	Status string `json:"status,omitempty"`
}

// Clone returns an independent copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	return out
}

// ParseTags splits a comma-separated tag string, trims entries, drops empty
// ones and caps the result at MaxTags. Duplicates are kept as entered.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

// ParseFilterTags is ParseTags for the tag filter: entries are additionally
// lowercased so matching is case-insensitive.
func ParseFilterTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		tags = append(tags, part)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
