package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// CreateContributor persists a new contribution to the database.
func (s *SQLiteStore) CreateContributor(ctx context.Context, c *models.Contributor) error {
	// Generate ID if not set
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contributors (id, name, amount, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Amount, c.CreatedBy, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contributor: %w", err)
	}

	s.hub.Notify(storage.CollectionContributors)
	return nil
}

// UpdateContributor replaces the name and amount of an existing contribution.
func (s *SQLiteStore) UpdateContributor(ctx context.Context, c *models.Contributor) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE contributors SET name = ?, amount = ? WHERE id = ?",
		c.Name, c.Amount, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contributor: %w", err)
	}
	if err := checkAffected(res, "contributor", c.ID); err != nil {
		return err
	}

	s.hub.Notify(storage.CollectionContributors)
	return nil
}

// DeleteContributor removes a contribution by ID.
func (s *SQLiteStore) DeleteContributor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contributors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contributor: %w", err)
	}
	if err := checkAffected(res, "contributor", id); err != nil {
		return err
	}

	s.hub.Notify(storage.CollectionContributors)
	return nil
}

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, date, description, spender, amount, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date, e.Desc, e.Spender, e.Amount, e.CreatedBy, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	s.hub.Notify(storage.CollectionExpenses)
	return nil
}

// UpdateExpense replaces date, description and amount of an existing expense.
// An empty Spender leaves the stored spender unchanged.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses
		 SET date = ?, description = ?, amount = ?, spender = COALESCE(NULLIF(?, ''), spender)
		 WHERE id = ?`,
		e.Date, e.Desc, e.Amount, e.Spender, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := checkAffected(res, "expense", e.ID); err != nil {
		return err
	}

	s.hub.Notify(storage.CollectionExpenses)
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := checkAffected(res, "expense", id); err != nil {
		return err
	}

	s.hub.Notify(storage.CollectionExpenses)
	return nil
}

// AppendLog adds an audit entry with a store-assigned ID and timestamp.
func (s *SQLiteStore) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	entry.ID = uuid.New().String()
	ts := s.nextTimestamp()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO logs (id, message, timestamp) VALUES (?, ?, ?)",
		entry.ID, entry.Message, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	entry.Timestamp = time.Unix(0, ts)

	s.hub.Notify(storage.CollectionLogs)
	return nil
}

func (s *SQLiteStore) listContributors(ctx context.Context) ([]models.Contributor, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, amount, created_by FROM contributors ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	defer rows.Close()

	var contributors []models.Contributor
	for rows.Next() {
		var c models.Contributor
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		contributors = append(contributors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributors: %w", err)
	}

	return contributors, nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, newestFirst bool) ([]models.Expense, error) {
	query := "SELECT id, date, description, spender, amount, created_by FROM expenses ORDER BY created_at, id"
	if newestFirst {
		query = "SELECT id, date, description, spender, amount, created_by FROM expenses ORDER BY date DESC, created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Desc, &e.Spender, &e.Amount, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

func (s *SQLiteStore) listLogs(ctx context.Context, newestFirst bool) ([]models.LogEntry, error) {
	query := "SELECT id, message, timestamp FROM logs ORDER BY timestamp"
	if newestFirst {
		query = "SELECT id, message, timestamp FROM logs ORDER BY timestamp DESC"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var logs []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		var ts int64
		if err := rows.Scan(&entry.ID, &entry.Message, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		entry.Timestamp = time.Unix(0, ts)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate logs: %w", err)
	}

	return logs, nil
}
