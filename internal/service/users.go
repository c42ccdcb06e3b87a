package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/pkg/api"
)

// GetUser returns a profile. Members may read their own profile; admins may
// read any.
func (s *DocumentService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	id, self, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ID != id.UID && !isAdmin(self) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotAdmin)
	}

	u, err := s.store.GetUser(ctx, req.Msg.ID)
	if err != nil {
		return nil, s.storeError("GetUser", err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: api.FromUser(u)}), nil
}

// SetUser creates or replaces a profile. Only admins may set another user's
// profile or choose role and status; everyone else writes their own profile
// as a pending member.
func (s *DocumentService) SetUser(ctx context.Context, req *connect.Request[api.SetUserRequest]) (*connect.Response[api.SetUserResponse], error) {
	if req.Msg.User == nil || req.Msg.User.ID == "" {
		return nil, invalid("user id is required")
	}
	id, self, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	u := api.ToUser(req.Msg.User)
	if !isAdmin(self) {
		if u.ID != id.UID {
			return nil, connect.NewError(connect.CodePermissionDenied, errOtherProfile)
		}
		u.Role = models.RoleMember
		u.Status = models.StatusPending
	}
	if !u.Role.Valid() || !u.Status.Valid() {
		return nil, invalid("unknown role or status")
	}

	if err := s.store.SetUser(ctx, u); err != nil {
		return nil, s.storeError("SetUser", err)
	}
	s.logger.Info("Profile written", "user_id", u.ID, "status", u.Status, "by", id.UID)
	return connect.NewResponse(&api.SetUserResponse{}), nil
}

// UpdateUserStatus changes a membership status. Admins may set any status;
// the owner of a rejected profile may move it back to pending.
func (s *DocumentService) UpdateUserStatus(ctx context.Context, req *connect.Request[api.UpdateUserStatusRequest]) (*connect.Response[api.UpdateUserStatusResponse], error) {
	status := models.Status(req.Msg.Status)
	if !status.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errUnknownStatus)
	}
	id, self, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	resend := self != nil && req.Msg.ID == id.UID &&
		self.Status == models.StatusRejected && status == models.StatusPending
	if !isAdmin(self) && !resend {
		return nil, connect.NewError(connect.CodePermissionDenied, errStatusChange)
	}

	if err := s.store.UpdateUserStatus(ctx, req.Msg.ID, status); err != nil {
		return nil, s.storeError("UpdateUserStatus", err)
	}
	s.logger.Info("Membership status changed", "user_id", req.Msg.ID, "status", status, "by", id.UID)
	return connect.NewResponse(&api.UpdateUserStatusResponse{}), nil
}

// ListUsers returns the profiles with a status. Admins only.
func (s *DocumentService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	status := models.Status(req.Msg.Status)
	if !status.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errUnknownStatus)
	}
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsersByStatus(ctx, status)
	if err != nil {
		return nil, s.storeError("ListUsers", err)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: api.FromUsers(users)}), nil
}
