package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// TenantService resolves the active team for a request and manages team
// membership. The resolved team id is passed explicitly into every
// downstream call; nothing re-resolves it deeper in the stack.
type TenantService struct {
	teams port.TeamRepository
}

func NewTenantService(teams port.TeamRepository) *TenantService {
	return &TenantService{teams: teams}
}

// Resolve picks the active tenant. An explicit hint must parse as an
// integer team id and the principal must be a member of that team.
// Without a hint the principal's membership with the lowest membership
// id wins, which keeps the single-tenant fallback deterministic.
func (s *TenantService) Resolve(ctx context.Context, principal domain.Principal, explicit string) (int64, error) {
	if explicit != "" {
		teamID, err := strconv.ParseInt(explicit, 10, 64)
		if err != nil || teamID <= 0 {
			return 0, domain.ErrInvalidTenant
		}
		m, err := s.teams.GetMembership(ctx, principal.AccountID, teamID)
		if err != nil {
			return 0, fmt.Errorf("lookup membership: %w", err)
		}
		if m == nil {
			return 0, domain.ErrForbidden
		}
		return teamID, nil
	}

	memberships, err := s.teams.ListMemberships(ctx, principal.AccountID)
	if err != nil {
		return 0, fmt.Errorf("list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return 0, domain.ErrNoTenantMembership
	}

	// ListMemberships orders by membership id ascending.
	return memberships[0].TeamID, nil
}

// CreateTeam creates a team with the creator as its owner.
func (s *TenantService) CreateTeam(ctx context.Context, principal domain.Principal, name, description string) (*domain.Team, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	team := &domain.Team{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	owner := &domain.Membership{
		AccountID: principal.AccountID,
		Role:      domain.RoleOwner,
		CreatedAt: time.Now(),
	}
	if err := s.teams.CreateTeam(ctx, team, owner); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

func (s *TenantService) MyTeams(ctx context.Context, principal domain.Principal) ([]domain.Team, error) {
	teams, err := s.teams.ListTeamsByAccount(ctx, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// Join adds the principal to an existing team as a plain member.
func (s *TenantService) Join(ctx context.Context, principal domain.Principal, teamID int64) (*domain.Team, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("lookup team: %w", err)
	}
	if team == nil {
		return nil, domain.ErrInvalidTenant
	}
	existing, err := s.teams.GetMembership(ctx, principal.AccountID, teamID)
	if err != nil {
		return nil, fmt.Errorf("lookup membership: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError("team_id", "already a member")
	}
	m := &domain.Membership{
		TeamID:    teamID,
		AccountID: principal.AccountID,
		Role:      domain.RoleMember,
		CreatedAt: time.Now(),
	}
	if err := s.teams.AddMembership(ctx, m); err != nil {
		return nil, fmt.Errorf("add membership: %w", err)
	}
	return team, nil
}
