package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func (s *SQLStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := s.db.GetContext(ctx, &account, `
		SELECT id, name, email, password_hash, created_at
		FROM account WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

func (s *SQLStore) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	err := s.db.GetContext(ctx, &account, `
		SELECT id, name, email, password_hash, created_at
		FROM account WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

func (s *SQLStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO account (name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		account.Name, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("account id: %w", err)
	}
	account.ID = id
	return nil
}
