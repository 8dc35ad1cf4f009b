package domain

import "sort"

// SortTasks orders tasks in place for display within a column. The sort is
// stable over the incoming order, so a fixed input always yields the same
// output.
func SortTasks(tasks []Task, mode SortMode) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskLess(tasks[i], tasks[j], mode)
	})
}

func taskLess(a, b Task, mode SortMode) bool {
	switch mode {
	case SortNewest:
		return a.CreatedAt > b.CreatedAt
	case SortPriority:
		ar, br := a.Priority.Rank(), b.Priority.Rank()
		if ar != br {
			return ar > br
		}
		return deadlineLess(a, b)
	default:
		// SortDefault and SortDeadline share the same ordering.
		return deadlineLess(a, b)
	}
}

// deadlineLess puts tasks with a deadline before tasks without one, then
// orders by the deadline string ascending, then by creation time descending.
func deadlineLess(a, b Task) bool {
	aHas, bHas := a.Deadline != "", b.Deadline != ""
	if aHas != bHas {
		return aHas
	}
	if aHas && a.Deadline != b.Deadline {
		return a.Deadline < b.Deadline
	}
	return a.CreatedAt > b.CreatedAt
}
