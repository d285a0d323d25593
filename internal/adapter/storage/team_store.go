package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func (s *SQLStore) CreateTeam(ctx context.Context, team *domain.Team, owner *domain.Membership) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO team (name, description, created_at)
		VALUES (?, ?, ?)`,
		team.Name, team.Description, team.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	teamID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("team id: %w", err)
	}
	team.ID = teamID
	owner.TeamID = teamID

	result, err = tx.ExecContext(ctx, `
		INSERT INTO team_member (team_id, account_id, role, created_at)
		VALUES (?, ?, ?, ?)`,
		owner.TeamID, owner.AccountID, owner.Role, owner.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	memberID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("membership id: %w", err)
	}
	owner.ID = memberID

	return tx.Commit()
}

func (s *SQLStore) GetTeam(ctx context.Context, teamID int64) (*domain.Team, error) {
	var team domain.Team
	err := s.db.GetContext(ctx, &team, `
		SELECT id, name, description, created_at FROM team WHERE id = ?`, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query team: %w", err)
	}
	return &team, nil
}

func (s *SQLStore) ListMemberships(ctx context.Context, accountID int64) ([]domain.Membership, error) {
	memberships := []domain.Membership{}
	err := s.db.SelectContext(ctx, &memberships, `
		SELECT id, team_id, account_id, role, created_at
		FROM team_member WHERE account_id = ?
		ORDER BY id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	return memberships, nil
}

func (s *SQLStore) GetMembership(ctx context.Context, accountID, teamID int64) (*domain.Membership, error) {
	var m domain.Membership
	err := s.db.GetContext(ctx, &m, `
		SELECT id, team_id, account_id, role, created_at
		FROM team_member WHERE account_id = ? AND team_id = ?`,
		accountID, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query membership: %w", err)
	}
	return &m, nil
}

func (s *SQLStore) AddMembership(ctx context.Context, m *domain.Membership) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO team_member (team_id, account_id, role, created_at)
		VALUES (?, ?, ?, ?)`,
		m.TeamID, m.AccountID, m.Role, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("membership id: %w", err)
	}
	m.ID = id
	return nil
}

func (s *SQLStore) ListTeamsByAccount(ctx context.Context, accountID int64) ([]domain.Team, error) {
	teams := []domain.Team{}
	err := s.db.SelectContext(ctx, &teams, `
		SELECT t.id, t.name, t.description, t.created_at
		FROM team t
		JOIN team_member m ON m.team_id = t.id
		WHERE m.account_id = ?
		ORDER BY m.id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	return teams, nil
}
