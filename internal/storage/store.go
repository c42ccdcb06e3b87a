// Package storage provides abstractions for the fund's document store.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/fundkeeper/internal/models"
)

// ErrNotFound is returned (possibly wrapped) when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Collection names one of the store's flat collections.
type Collection string

const (
	CollectionUsers        Collection = "users"
	CollectionContributors Collection = "contributors"
	CollectionExpenses     Collection = "expenses"
	CollectionLogs         Collection = "logs"
)

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	switch c {
	case CollectionUsers, CollectionContributors, CollectionExpenses, CollectionLogs:
		return true
	default:
		return false
	}
}

// Ordering fields understood by Query.OrderBy.
const (
	OrderByDate      = "date"
	OrderByTimestamp = "timestamp"
)

// Query describes a live query over one collection.
// OrderBy is optional; when set, documents are ordered by that field descending.
type Query struct {
	Collection Collection
	OrderBy    string
}

// Snapshot is the complete content of a collection at one point in time.
// Only the slice matching Collection is populated. A snapshot with a non-nil
// Err reports that the live query was interrupted; it is the last one sent.
type Snapshot struct {
	Collection   Collection
	Users        []models.User
	Contributors []models.Contributor
	Expenses     []models.Expense
	Logs         []models.LogEntry
	Err          error
}

// Len returns the number of documents in the snapshot.
func (s Snapshot) Len() int {
	switch s.Collection {
	case CollectionUsers:
		return len(s.Users)
	case CollectionContributors:
		return len(s.Contributors)
	case CollectionExpenses:
		return len(s.Expenses)
	case CollectionLogs:
		return len(s.Logs)
	default:
		return 0
	}
}

// Store defines the document store contract used by the client core.
// This abstraction allows the core to run against the local SQLite store or
// a remote document server without changing the sync layer.
type Store interface {
	// Subscribe opens a live query. The returned channel receives a full
	// snapshot immediately and again after every change to the collection.
	// It is closed when ctx is done or after a snapshot carrying Err.
	Subscribe(ctx context.Context, q Query) (<-chan Snapshot, error)

	// GetUser returns the profile keyed by id, or ErrNotFound.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// SetUser creates or replaces the profile keyed by user.ID.
	// Concurrent writers to the same id resolve as last-writer-wins.
	SetUser(ctx context.Context, user *models.User) error

	// UpdateUserStatus changes the status of an existing profile.
	UpdateUserStatus(ctx context.Context, id string, status models.Status) error

	// ListUsersByStatus returns the profiles with the given status.
	ListUsersByStatus(ctx context.Context, status models.Status) ([]models.User, error)

	// CreateContributor persists a new contribution. The store assigns c.ID.
	CreateContributor(ctx context.Context, c *models.Contributor) error

	// UpdateContributor replaces the name and amount of an existing record.
	UpdateContributor(ctx context.Context, c *models.Contributor) error

	// DeleteContributor removes a contribution record.
	DeleteContributor(ctx context.Context, id string) error

	// CreateExpense persists a new expense. The store assigns e.ID.
	CreateExpense(ctx context.Context, e *models.Expense) error

	// UpdateExpense replaces date, description and amount of an existing
	// expense. The spender is only replaced when e.Spender is non-empty.
	UpdateExpense(ctx context.Context, e *models.Expense) error

	// DeleteExpense removes an expense record.
	DeleteExpense(ctx context.Context, id string) error

	// AppendLog adds an audit entry. The store assigns entry.ID and
	// entry.Timestamp.
	AppendLog(ctx context.Context, entry *models.LogEntry) error

	// Close releases any resources held by the store.
	Close() error
}
