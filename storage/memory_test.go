package storage

import (
	"context"
	"errors"
	"testing"

	"taskboard-api/domain"
)

func TestMemoryUserLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.CreateUser(ctx, domain.User{Email: "a@example.com", Name: "Alice", Role: domain.RoleUser, Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated user id")
	}

	got, err := m.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if got.Email != "a@example.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}

	if _, err := m.UserByEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if _, err := m.UserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u.Name = "Alice Chen"
	if err := m.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, _ = m.UserByID(ctx, u.ID)
	if got.Name != "Alice Chen" {
		t.Fatalf("update not persisted, name %q", got.Name)
	}

	if err := m.SaveUser(ctx, domain.User{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound saving unknown user, got %v", err)
	}
}

func TestMemoryBoardsByOwnerFiltersArchivedAndForeign(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	mine, _ := m.CreateBoard(ctx, domain.Board{Title: "Mine", OwnerID: "owner-1"})
	archived, _ := m.CreateBoard(ctx, domain.Board{Title: "Old", OwnerID: "owner-1"})
	archived.IsArchived = true
	if err := m.SaveBoard(ctx, archived); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	m.CreateBoard(ctx, domain.Board{Title: "Theirs", OwnerID: "owner-2"})

	boards, err := m.BoardsByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("BoardsByOwner: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != mine.ID {
		t.Fatalf("expected only the live owned board, got %+v", boards)
	}

	all, err := m.Boards(ctx)
	if err != nil {
		t.Fatalf("Boards: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 non-archived boards, got %d", len(all))
	}
}

func TestMemoryListsByBoardSortsAndFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	b, _ := m.CreateBoard(ctx, domain.Board{Title: "B", OwnerID: "o"})
	m.CreateList(ctx, domain.List{BoardID: b.ID, Title: "third", Order: 3})
	first, _ := m.CreateList(ctx, domain.List{BoardID: b.ID, Title: "first", Order: 1})
	hidden, _ := m.CreateList(ctx, domain.List{BoardID: b.ID, Title: "hidden", Order: 2})
	hidden.IsArchived = true
	if err := m.SaveList(ctx, hidden); err != nil {
		t.Fatalf("SaveList: %v", err)
	}
	m.CreateList(ctx, domain.List{BoardID: "other-board", Title: "elsewhere", Order: 0})

	lists, err := m.ListsByBoard(ctx, b.ID, false)
	if err != nil {
		t.Fatalf("ListsByBoard: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 visible lists, got %d", len(lists))
	}
	if lists[0].ID != first.ID || lists[1].Title != "third" {
		t.Fatalf("lists not sorted by order: %+v", lists)
	}

	withArchived, _ := m.ListsByBoard(ctx, b.ID, true)
	if len(withArchived) != 3 {
		t.Fatalf("expected 3 lists including archived, got %d", len(withArchived))
	}
}

func TestMemoryTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	task, err := m.CreateTask(ctx, domain.Task{ListID: "l1", Title: "Write docs", Priority: domain.PriorityMedium, Status: domain.StatusTodo})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Tags == nil {
		t.Fatal("expected tags normalized to an empty slice")
	}

	task.Status = domain.StatusDone
	if err := m.SaveTask(ctx, task); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	got, _ := m.TaskByID(ctx, task.ID)
	if got.Status != domain.StatusDone {
		t.Fatalf("status not persisted, got %s", got.Status)
	}

	if err := m.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := m.TaskByID(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestMemoryDeleteTasksByList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.CreateTask(ctx, domain.Task{ListID: "l1", Title: "one"})
	m.CreateTask(ctx, domain.Task{ListID: "l1", Title: "two"})
	keep, _ := m.CreateTask(ctx, domain.Task{ListID: "l2", Title: "keep"})

	removed, err := m.DeleteTasksByList(ctx, "l1")
	if err != nil {
		t.Fatalf("DeleteTasksByList: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed tasks, got %d", len(removed))
	}

	left, _ := m.TasksByList(ctx, "l1")
	if len(left) != 0 {
		t.Fatalf("expected l1 empty, got %d tasks", len(left))
	}
	if _, err := m.TaskByID(ctx, keep.ID); err != nil {
		t.Fatalf("task in other list should survive: %v", err)
	}
}
