package board

import (
	"errors"
	"testing"

	"frameline/internal/domain"
)

func TestNewDefault(t *testing.T) {
	b := NewDefault("board-1", 1700)
	if b.ID != "board-1" || b.Title != "Default Board" || b.CreatedAt != 1700 {
		t.Fatalf("unexpected board header %+v", b)
	}
	wantIDs := []string{"TO_DO", "IN_PROGRESS", "COMPLETED"}
	if len(b.Columns) != len(wantIDs) {
		t.Fatalf("expected 3 columns, got %d", len(b.Columns))
	}
	for i, c := range b.Columns {
		if c.ID != wantIDs[i] || c.Order != i {
			t.Fatalf("column %d = %s/%d", i, c.ID, c.Order)
		}
		if c.Tasks == nil || len(c.Tasks) != 0 {
			t.Fatalf("column %s should have an empty task list", c.ID)
		}
	}
}

func TestNewDefaultBoardsAreIndependent(t *testing.T) {
	a := NewDefault("a", 1)
	b := NewDefault("b", 1)
	if err := AddTask(&a, domain.Task{ID: "t1", Status: domain.StatusToDo}); err != nil {
		t.Fatal(err)
	}
	if len(b.Columns[0].Tasks) != 0 {
		t.Fatalf("boards share column storage")
	}
}

func TestAddAndMoveTask(t *testing.T) {
	b := NewDefault("b", 1)
	for _, id := range []string{"t1", "t2", "t3"} {
		if err := AddTask(&b, domain.Task{ID: id, Status: domain.StatusToDo}); err != nil {
			t.Fatal(err)
		}
	}
	moved, err := MoveTask(&b, "t2", domain.StatusInProgress, 50)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Status != domain.StatusInProgress || moved.UpdatedAt != 50 {
		t.Fatalf("unexpected moved task %+v", moved)
	}
	if got := len(b.Columns[0].Tasks); got != 2 {
		t.Fatalf("expected 2 tasks left in TO_DO, got %d", got)
	}
	if b.Columns[0].Tasks[0].ID != "t1" || b.Columns[0].Tasks[1].ID != "t3" {
		t.Fatalf("TO_DO order broken: %+v", b.Columns[0].Tasks)
	}
	task, col, ok := FindTask(b, "t2")
	if !ok || col != "IN_PROGRESS" || task.Status != domain.StatusInProgress {
		t.Fatalf("find t2: ok=%v col=%s task=%+v", ok, col, task)
	}
	if _, err := MoveTask(&b, "nope", domain.StatusCompleted, 60); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := MoveTask(&b, "t1", "ARCHIVED", 60); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestDeriveBuckets(t *testing.T) {
	b := NewDefault("b", 1)
	now := int64(1000)
	tasks := []domain.Task{
		{ID: "todo", Status: domain.StatusToDo},
		{ID: "todo-late", Status: domain.StatusToDo, CompletionDate: 500},
		{ID: "doing", Status: domain.StatusInProgress, CompletionDate: 2000},
		{ID: "doing-late", Status: domain.StatusInProgress, CompletionDate: 999},
		{ID: "done-late", Status: domain.StatusCompleted, CompletionDate: 10},
	}
	for _, task := range tasks {
		if err := AddTask(&b, task); err != nil {
			t.Fatal(err)
		}
	}
	got := DeriveBuckets(b, now)
	ids := func(items []domain.TaskItem) []string {
		out := []string{}
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}
	if in := ids(got.InProgress); len(in) != 1 || in[0] != "doing" {
		t.Fatalf("inProgress = %v", in)
	}
	if done := ids(got.Completed); len(done) != 1 || done[0] != "done-late" {
		t.Fatalf("completed = %v", done)
	}
	if late := ids(got.Overdue); len(late) != 2 || late[0] != "todo-late" || late[1] != "doing-late" {
		t.Fatalf("overdue = %v", late)
	}
	if got.Overdue[1].DueDate != 999 {
		t.Fatalf("due date not carried: %+v", got.Overdue[1])
	}
}
