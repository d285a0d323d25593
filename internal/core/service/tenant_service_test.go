package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func TestResolve_ExplicitHint(t *testing.T) {
	store := newFakeStore()
	svc := NewTenantService(store)
	ctx := context.Background()
	alice := domain.Principal{AccountID: 100}

	team, err := svc.CreateTeam(ctx, alice, "warehouse", "")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	got, err := svc.Resolve(ctx, alice, "1")
	if err != nil || got != team.ID {
		t.Errorf("expected team %d, got %d err=%v", team.ID, got, err)
	}

	// A non-member hint is forbidden, not merely invalid.
	bob := domain.Principal{AccountID: 200}
	if _, err := svc.Resolve(ctx, bob, "1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-member, got %v", err)
	}

	for _, hint := range []string{"abc", "-3", "0"} {
		if _, err := svc.Resolve(ctx, alice, hint); !errors.Is(err, domain.ErrInvalidTenant) {
			t.Errorf("hint %q: expected ErrInvalidTenant, got %v", hint, err)
		}
	}
}

func TestResolve_DefaultsToEarliestMembership(t *testing.T) {
	store := newFakeStore()
	svc := NewTenantService(store)
	ctx := context.Background()
	alice := domain.Principal{AccountID: 100}

	first, err := svc.CreateTeam(ctx, alice, "first", "")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if _, err := svc.CreateTeam(ctx, alice, "second", ""); err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	got, err := svc.Resolve(ctx, alice, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != first.ID {
		t.Fatalf("expected earliest membership's team %d, got %d", first.ID, got)
	}
}

func TestResolve_NoMembership(t *testing.T) {
	store := newFakeStore()
	svc := NewTenantService(store)

	if _, err := svc.Resolve(context.Background(), domain.Principal{AccountID: 100}, ""); !errors.Is(err, domain.ErrNoTenantMembership) {
		t.Fatalf("expected ErrNoTenantMembership, got %v", err)
	}
}

func TestCreateTeam_OwnerMembership(t *testing.T) {
	store := newFakeStore()
	svc := NewTenantService(store)
	ctx := context.Background()
	alice := domain.Principal{AccountID: 100}

	team, err := svc.CreateTeam(ctx, alice, "warehouse", "main stock")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	m, err := store.GetMembership(ctx, alice.AccountID, team.ID)
	if err != nil || m == nil {
		t.Fatalf("expected owner membership, got %+v err=%v", m, err)
	}
	if m.Role != domain.RoleOwner {
		t.Errorf("expected owner role, got %q", m.Role)
	}

	var ve *domain.ValidationError
	if _, err := svc.CreateTeam(ctx, alice, "", ""); !errors.As(err, &ve) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
}

func TestJoin(t *testing.T) {
	store := newFakeStore()
	svc := NewTenantService(store)
	ctx := context.Background()
	alice := domain.Principal{AccountID: 100}
	bob := domain.Principal{AccountID: 200}

	team, err := svc.CreateTeam(ctx, alice, "warehouse", "")
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	joined, err := svc.Join(ctx, bob, team.ID)
	if err != nil || joined.ID != team.ID {
		t.Fatalf("join failed: %+v err=%v", joined, err)
	}
	m, _ := store.GetMembership(ctx, bob.AccountID, team.ID)
	if m == nil || m.Role != domain.RoleMember {
		t.Fatalf("expected member role, got %+v", m)
	}

	var ve *domain.ValidationError
	if _, err := svc.Join(ctx, bob, team.ID); !errors.As(err, &ve) {
		t.Errorf("expected validation error for second join, got %v", err)
	}
	if _, err := svc.Join(ctx, bob, 999); !errors.Is(err, domain.ErrInvalidTenant) {
		t.Errorf("expected ErrInvalidTenant for unknown team, got %v", err)
	}

	teams, err := svc.MyTeams(ctx, bob)
	if err != nil || len(teams) != 1 || teams[0].ID != team.ID {
		t.Fatalf("expected one team for bob, got %+v err=%v", teams, err)
	}
}
