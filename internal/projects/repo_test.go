package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxresumo/internal/domain"
	"voxresumo/internal/store"
)

func project(id string, at time.Time) domain.Project {
	return domain.Project{
		ID:               id,
		Name:             "Weekly sync",
		Type:             domain.TaskTypeMeeting,
		Status:           domain.ProjectStatusCompleted,
		OriginalFileName: id + ".mp3",
		DurationSeconds:  120,
		CreatedAt:        at,
	}
}

func TestSavePrependsNewestFirst(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"p1", "p2", "p3"} {
		if err := repo.Save(ctx, "user-a", project(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save(%s) error: %v", id, err)
		}
	}

	list, err := repo.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d projects, want 3", len(list))
	}
	for i, want := range []string{"p3", "p2", "p1"} {
		if list[i].ID != want {
			t.Fatalf("List()[%d].ID = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestSaveReplacesExistingInPlace(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, "user-a", project("p1", base)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := repo.Save(ctx, "user-a", project("p2", base)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	updated := project("p1", base)
	updated.Status = domain.ProjectStatusError
	if err := repo.Save(ctx, "user-a", updated); err != nil {
		t.Fatalf("Save(updated) error: %v", err)
	}

	list, err := repo.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d projects, want 2", len(list))
	}
	got, err := repo.Get(ctx, "user-a", "p1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != domain.ProjectStatusError {
		t.Fatalf("Get(p1).Status = %s, want error status after replace", got.Status)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	if _, err := repo.Get(context.Background(), "user-a", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, "user-a", project("p1", base)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := repo.Delete(ctx, "user-a", "p1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Get(ctx, "user-a", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	// Deleting again is a no-op.
	if err := repo.Delete(ctx, "user-a", "p1"); err != nil {
		t.Fatalf("Delete() second call error: %v", err)
	}
}

func TestHistoriesAreIsolatedPerUser(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, "user-a", project("p1", base)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	list, err := repo.List(ctx, "user-b")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("user-b sees %d projects, want 0", len(list))
	}
}
