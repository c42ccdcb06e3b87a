package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/middleware"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/pkg/api"
)

// Subscribe streams full snapshots of a collection: one immediately and one
// after every change. Ledger collections need an approved caller; the users
// collection needs an admin. Access is checked again before every snapshot,
// so a caller who loses it mid-stream gets PermissionDenied.
func (s *DocumentService) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest], stream *connect.ServerStream[api.SubscribeResponse]) error {
	q := storage.Query{Collection: storage.Collection(req.Msg.Collection), OrderBy: req.Msg.OrderBy}
	if !q.Collection.Valid() {
		return invalid("unknown collection " + req.Msg.Collection)
	}

	authorize := s.requireApproved
	if q.Collection == storage.CollectionUsers {
		authorize = s.requireAdmin
	}
	if _, err := authorize(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := s.store.Subscribe(ctx, q)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	for snap := range ch {
		if snap.Err != nil {
			s.logger.Error("Live query interrupted", "collection", q.Collection, "error", snap.Err)
			return connect.NewError(connect.CodeUnavailable, snap.Err)
		}
		if _, err := authorize(ctx); err != nil {
			s.logger.Info("Live query revoked", "collection", q.Collection, "user_id", middleware.GetUserID(ctx))
			return err
		}
		if err := stream.Send(toSubscribeResponse(snap)); err != nil {
			return err
		}
	}
	// The store closes the channel once ctx is done.
	return nil
}

func toSubscribeResponse(snap storage.Snapshot) *api.SubscribeResponse {
	resp := &api.SubscribeResponse{Collection: string(snap.Collection)}
	switch snap.Collection {
	case storage.CollectionUsers:
		resp.Users = api.FromUsers(snap.Users)
	case storage.CollectionContributors:
		resp.Contributors = api.FromContributors(snap.Contributors)
	case storage.CollectionExpenses:
		resp.Expenses = api.FromExpenses(snap.Expenses)
	case storage.CollectionLogs:
		resp.Logs = api.FromLogEntries(snap.Logs)
	}
	return resp
}
