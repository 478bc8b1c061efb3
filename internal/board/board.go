// Package board builds the default Kanban board and moves tasks across it.
package board

import (
	"errors"
	"fmt"

	"frameline/internal/domain"
)

const DefaultTitle = "Default Board"

var ErrTaskNotFound = errors.New("task not found")

var defaultColumns = []struct {
	status domain.TaskStatus
	name   string
}{
	{domain.StatusToDo, "To Do"},
	{domain.StatusInProgress, "In Progress"},
	{domain.StatusCompleted, "Completed"},
}

// NewDefault returns the three-column board every project starts with.
func NewDefault(id string, nowMillis int64) domain.KanbanBoard {
	cols := make([]domain.TaskColumn, 0, len(defaultColumns))
	for i, c := range defaultColumns {
		cols = append(cols, domain.TaskColumn{
			ID:    string(c.status),
			Name:  c.name,
			Tasks: []domain.Task{},
			Order: i,
		})
	}
	return domain.KanbanBoard{
		ID:        id,
		Title:     DefaultTitle,
		Columns:   cols,
		CreatedAt: nowMillis,
	}
}

func columnIndex(b *domain.KanbanBoard, columnID string) int {
	for i, c := range b.Columns {
		if c.ID == columnID {
			return i
		}
	}
	return -1
}

// AddTask appends t to the column matching its status.
func AddTask(b *domain.KanbanBoard, t domain.Task) error {
	idx := columnIndex(b, string(t.Status))
	if idx < 0 {
		return fmt.Errorf("invalid status %s: no such column on board %s", t.Status, b.ID)
	}
	b.Columns[idx].Tasks = append(b.Columns[idx].Tasks, t)
	return nil
}

// FindTask returns the task with the given id and the column holding it.
func FindTask(b domain.KanbanBoard, taskID string) (domain.Task, string, bool) {
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			if t.ID == taskID {
				return t, c.ID, true
			}
		}
	}
	return domain.Task{}, "", false
}

// MoveTask moves a task to the column for status and stamps it with
// updatedAt. Moving to the current column only updates the task.
func MoveTask(b *domain.KanbanBoard, taskID string, status domain.TaskStatus, updatedAt int64) (domain.Task, error) {
	dst := columnIndex(b, string(status))
	if dst < 0 {
		return domain.Task{}, fmt.Errorf("invalid status %s: no such column on board %s", status, b.ID)
	}
	for ci := range b.Columns {
		tasks := b.Columns[ci].Tasks
		for ti, t := range tasks {
			if t.ID != taskID {
				continue
			}
			t.Status = status
			t.UpdatedAt = updatedAt
			if ci == dst {
				tasks[ti] = t
				return t, nil
			}
			b.Columns[ci].Tasks = append(tasks[:ti:ti], tasks[ti+1:]...)
			b.Columns[dst].Tasks = append(b.Columns[dst].Tasks, t)
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

// DeriveBuckets computes schedule buckets from the board. A task that has a
// completion date before now and is not completed is overdue; the buckets
// are exclusive and keep board order.
func DeriveBuckets(b domain.KanbanBoard, nowMillis int64) domain.ScheduleBuckets {
	out := domain.ScheduleBuckets{
		InProgress: []domain.TaskItem{},
		Completed:  []domain.TaskItem{},
		Overdue:    []domain.TaskItem{},
	}
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			item := ItemFromTask(t)
			done := c.ID == string(domain.StatusCompleted)
			switch {
			case !done && t.CompletionDate > 0 && t.CompletionDate < nowMillis:
				out.Overdue = append(out.Overdue, item)
			case done:
				out.Completed = append(out.Completed, item)
			case c.ID == string(domain.StatusInProgress):
				out.InProgress = append(out.InProgress, item)
			}
		}
	}
	return out
}

func ItemFromTask(t domain.Task) domain.TaskItem {
	return domain.TaskItem{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Priority:    t.Priority,
		DueDate:     t.CompletionDate,
	}
}
