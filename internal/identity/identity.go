// Package identity manages the anonymous user identities and stored plans
// the quota system keys on. Identities are advisory: any client can mint a
// fresh one, so everything downstream treats the id as an opaque label
// rather than proof of anything.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"voxresumo/internal/domain"
	"voxresumo/internal/store"
)

// Provider mints and resolves user identities and their plans.
type Provider struct {
	store store.Store
}

func NewProvider(s store.Store) *Provider {
	return &Provider{store: s}
}

// GetOrCreate returns the presented id when it is known, otherwise mints a
// new identity and persists it. Repeated calls with the same id are
// idempotent.
func (p *Provider) GetOrCreate(ctx context.Context, presentedID string) (string, bool, error) {
	presentedID = strings.TrimSpace(presentedID)
	if presentedID != "" {
		_, known, err := p.store.Get(ctx, store.UserIDKey(presentedID))
		if err != nil {
			return "", false, fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
		}
		if known {
			return presentedID, false, nil
		}
	}
	id := uuid.NewString()
	if err := p.store.Set(ctx, store.UserIDKey(id), id); err != nil {
		return "", false, fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	return id, true, nil
}

// Plan resolves the effective plan for a user: unauthenticated when the id
// was never minted, the stored plan when present, free otherwise.
func (p *Provider) Plan(ctx context.Context, userID string) (domain.UserPlan, error) {
	_, known, err := p.store.Get(ctx, store.UserIDKey(userID))
	if err != nil {
		return "", fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	if !known {
		return domain.UserPlanUnauthenticated, nil
	}
	raw, ok, err := p.store.Get(ctx, store.UserPlanKey(userID))
	if err != nil {
		return "", fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	if !ok || raw == "" {
		return domain.UserPlanFree, nil
	}
	plan := domain.UserPlan(raw)
	if !plan.Valid() {
		return domain.UserPlanFree, nil
	}
	return plan, nil
}

// SetPlan stores the plan for a user, minting the identity first when
// needed so a stored plan always has an owner.
func (p *Provider) SetPlan(ctx context.Context, userID string, plan domain.UserPlan) error {
	if plan != domain.UserPlanFree && plan != domain.UserPlanPro {
		return fmt.Errorf("identity: %w: %q", domain.ErrUnsupportedPlan, plan)
	}
	if err := p.store.Set(ctx, store.UserIDKey(userID), userID); err != nil {
		return fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	if err := p.store.Set(ctx, store.UserPlanKey(userID), string(plan)); err != nil {
		return fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// ClearSession deletes the identity and plan. Daily usage keys stay in
// place: a user who logs out and back in on the same day keeps their
// consumption.
func (p *Provider) ClearSession(ctx context.Context, userID string) error {
	if err := p.store.Delete(ctx, store.UserIDKey(userID)); err != nil {
		return fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	if err := p.store.Delete(ctx, store.UserPlanKey(userID)); err != nil {
		return fmt.Errorf("identity: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}
