package remote

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/pkg/api"
)

// Subscribe opens a server stream and relays its snapshots. A stream that
// fails or ends while ctx is live produces a final snapshot carrying Err.
func (s *Store) Subscribe(ctx context.Context, q storage.Query) (<-chan storage.Snapshot, error) {
	stream, err := s.client.Subscribe(ctx, connect.NewRequest(&api.SubscribeRequest{
		Collection: string(q.Collection),
		OrderBy:    q.OrderBy,
	}))
	if err != nil {
		return nil, translate(err)
	}

	out := make(chan storage.Snapshot)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Receive() {
			snap := toSnapshot(q.Collection, stream.Msg())
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			if snap.Err != nil {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		err := stream.Err()
		if err == nil {
			err = errStreamEnded
		}
		s.logger.Warn("Live query stream ended", "collection", q.Collection, "error", err)
		select {
		case out <- storage.Snapshot{Collection: q.Collection, Err: translate(err)}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func toSnapshot(c storage.Collection, resp *api.SubscribeResponse) storage.Snapshot {
	snap := storage.Snapshot{Collection: storage.Collection(resp.Collection)}
	var err error
	switch snap.Collection {
	case storage.CollectionUsers:
		snap.Users = api.ToUsers(resp.Users)
	case storage.CollectionContributors:
		snap.Contributors, err = api.ToContributors(resp.Contributors)
	case storage.CollectionExpenses:
		snap.Expenses, err = api.ToExpenses(resp.Expenses)
	case storage.CollectionLogs:
		snap.Logs = api.ToLogEntries(resp.Logs)
	}
	if err != nil {
		return storage.Snapshot{Collection: c, Err: err}
	}
	return snap
}
