package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// GetUser retrieves a user profile by its identity id.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, email, role, status
		FROM users
		WHERE id = ?
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Email,
		&user.Role,
		&user.Status,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// SetUser creates or replaces the profile keyed by user.ID.
func (s *SQLiteStore) SetUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("failed to set user: empty id")
	}

	query := `
		INSERT INTO users (id, display_name, email, role, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			role = excluded.role,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.DisplayName,
		user.Email,
		user.Role,
		user.Status,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}

	s.hub.Notify(storage.CollectionUsers)
	return nil
}

// UpdateUserStatus changes the status of an existing profile.
func (s *SQLiteStore) UpdateUserStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("failed to update user status: invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if err := checkAffected(res, "user", id); err != nil {
		return err
	}

	s.hub.Notify(storage.CollectionUsers)
	return nil
}

// ListUsersByStatus retrieves every profile with the given status, ordered by name.
func (s *SQLiteStore) ListUsersByStatus(ctx context.Context, status models.Status) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, email, role, status FROM users WHERE status = ? ORDER BY display_name, id",
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by status: %w", err)
	}
	return scanUsers(rows)
}

func (s *SQLiteStore) listUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, email, role, status FROM users ORDER BY display_name, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.DisplayName,
			&user.Email,
			&user.Role,
			&user.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
