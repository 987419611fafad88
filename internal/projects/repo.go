// Package projects keeps the per-user submission history.
package projects

import (
	"context"
	"encoding/json"
	"fmt"

	"voxresumo/internal/domain"
	"voxresumo/internal/store"
)

// Repository stores each user's project list as one JSON value, most
// recent first.
type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// List returns the user's projects, newest first. A user with no history
// gets an empty slice.
func (r *Repository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return r.load(ctx, userID)
}

// Get returns one project by id, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	list, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == projectID {
			return &list[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Save prepends the project to the user's history or replaces it in place
// when the id already exists.
func (r *Repository) Save(ctx context.Context, userID string, project domain.Project) error {
	list, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == project.ID {
			list[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		list = append([]domain.Project{project}, list...)
	}
	return r.persist(ctx, userID, list)
}

// Delete removes one project from the history. Missing ids are not an
// error, matching the original client's filter-and-rewrite behavior.
func (r *Repository) Delete(ctx context.Context, userID, projectID string) error {
	list, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, p := range list {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	return r.persist(ctx, userID, kept)
}

func (r *Repository) load(ctx context.Context, userID string) ([]domain.Project, error) {
	raw, ok, err := r.store.Get(ctx, store.ProjectsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("projects: %w: %v", domain.ErrPersistence, err)
	}
	if !ok || raw == "" {
		return []domain.Project{}, nil
	}
	var list []domain.Project
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("projects: decode history: %w", err)
	}
	return list, nil
}

func (r *Repository) persist(ctx context.Context, userID string, list []domain.Project) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("projects: encode history: %w", err)
	}
	if err := r.store.Set(ctx, store.ProjectsKey(userID), string(raw)); err != nil {
		return fmt.Errorf("projects: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}
