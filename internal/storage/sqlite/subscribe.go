package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/fundkeeper/internal/storage"
)

// validateQuery checks that the collection exists and supports the ordering.
func validateQuery(q storage.Query) error {
	if !q.Collection.Valid() {
		return fmt.Errorf("unknown collection %q", q.Collection)
	}
	switch {
	case q.OrderBy == "":
		return nil
	case q.Collection == storage.CollectionExpenses && q.OrderBy == storage.OrderByDate:
		return nil
	case q.Collection == storage.CollectionLogs && q.OrderBy == storage.OrderByTimestamp:
		return nil
	default:
		return fmt.Errorf("collection %s cannot be ordered by %q", q.Collection, q.OrderBy)
	}
}

// Subscribe opens a live query over one collection.
// The first snapshot is sent immediately; each change notification from the
// hub triggers a full re-read of the collection.
func (s *SQLiteStore) Subscribe(ctx context.Context, q storage.Query) (<-chan storage.Snapshot, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	// Register before the first read so no write slips between the two.
	subID, changes := s.hub.Subscribe(q.Collection)
	out := make(chan storage.Snapshot)

	go func() {
		defer close(out)
		defer s.hub.Unsubscribe(q.Collection, subID)

		for {
			snap := s.readSnapshot(ctx, q)
			if snap.Err != nil && ctx.Err() != nil {
				return
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			if snap.Err != nil {
				s.logger.Warn("Live query stopped", "collection", q.Collection, "error", snap.Err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *SQLiteStore) readSnapshot(ctx context.Context, q storage.Query) storage.Snapshot {
	snap := storage.Snapshot{Collection: q.Collection}
	var err error

	switch q.Collection {
	case storage.CollectionUsers:
		snap.Users, err = s.listUsers(ctx)
	case storage.CollectionContributors:
		snap.Contributors, err = s.listContributors(ctx)
	case storage.CollectionExpenses:
		snap.Expenses, err = s.listExpenses(ctx, q.OrderBy == storage.OrderByDate)
	case storage.CollectionLogs:
		snap.Logs, err = s.listLogs(ctx, q.OrderBy == storage.OrderByTimestamp)
	}

	if err != nil {
		return storage.Snapshot{Collection: q.Collection, Err: err}
	}
	return snap
}
