package service

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/pkg/api"
)

func validateContributor(c *models.Contributor) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name is required")
	}
	if !c.Amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	return nil
}

func validateExpense(e *models.Expense, spenderOptional bool) error {
	if _, err := time.Parse(models.DateLayout, e.Date); err != nil {
		return invalid("date must be a calendar date (YYYY-MM-DD)")
	}
	if strings.TrimSpace(e.Desc) == "" {
		return invalid("description is required")
	}
	if strings.TrimSpace(e.Spender) == "" && !spenderOptional {
		return invalid("spender is required")
	}
	if !e.Amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	return nil
}

// CreateContributor records a contribution. The caller becomes its creator.
func (s *DocumentService) CreateContributor(ctx context.Context, req *connect.Request[api.CreateContributorRequest]) (*connect.Response[api.CreateContributorResponse], error) {
	c, err := api.ToContributor(req.Msg.Contributor)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := validateContributor(c); err != nil {
		return nil, err
	}
	self, err := s.requireApproved(ctx)
	if err != nil {
		return nil, err
	}

	c.CreatedBy = self.ID
	if err := s.store.CreateContributor(ctx, c); err != nil {
		return nil, s.storeError("CreateContributor", err)
	}
	s.logger.Info("Contributor created", "id", c.ID, "by", self.ID)
	return connect.NewResponse(&api.CreateContributorResponse{Contributor: api.FromContributor(c)}), nil
}

func (s *DocumentService) UpdateContributor(ctx context.Context, req *connect.Request[api.UpdateContributorRequest]) (*connect.Response[api.UpdateContributorResponse], error) {
	c, err := api.ToContributor(req.Msg.Contributor)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if c.ID == "" {
		return nil, invalid("record id is required")
	}
	if err := validateContributor(c); err != nil {
		return nil, err
	}
	if _, err := s.requireApproved(ctx); err != nil {
		return nil, err
	}

	if err := s.store.UpdateContributor(ctx, c); err != nil {
		return nil, s.storeError("UpdateContributor", err)
	}
	return connect.NewResponse(&api.UpdateContributorResponse{}), nil
}

func (s *DocumentService) DeleteContributor(ctx context.Context, req *connect.Request[api.DeleteContributorRequest]) (*connect.Response[api.DeleteContributorResponse], error) {
	if req.Msg.ID == "" {
		return nil, invalid("record id is required")
	}
	if _, err := s.requireApproved(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteContributor(ctx, req.Msg.ID); err != nil {
		return nil, s.storeError("DeleteContributor", err)
	}
	return connect.NewResponse(&api.DeleteContributorResponse{}), nil
}

// CreateExpense records an expense. The caller becomes its creator.
func (s *DocumentService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	e, err := api.ToExpense(req.Msg.Expense)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := validateExpense(e, false); err != nil {
		return nil, err
	}
	self, err := s.requireApproved(ctx)
	if err != nil {
		return nil, err
	}

	e.CreatedBy = self.ID
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, s.storeError("CreateExpense", err)
	}
	s.logger.Info("Expense created", "id", e.ID, "by", self.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: api.FromExpense(e)}), nil
}

// UpdateExpense edits an expense. An empty spender keeps the recorded one.
func (s *DocumentService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	e, err := api.ToExpense(req.Msg.Expense)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if e.ID == "" {
		return nil, invalid("record id is required")
	}
	if err := validateExpense(e, true); err != nil {
		return nil, err
	}
	if _, err := s.requireApproved(ctx); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, s.storeError("UpdateExpense", err)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{}), nil
}

func (s *DocumentService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if req.Msg.ID == "" {
		return nil, invalid("record id is required")
	}
	if _, err := s.requireApproved(ctx); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, s.storeError("DeleteExpense", err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// AppendLog adds an audit entry. Approved members may log; so may a pending
// member, whose resend is recorded after the status change.
func (s *DocumentService) AppendLog(ctx context.Context, req *connect.Request[api.AppendLogRequest]) (*connect.Response[api.AppendLogResponse], error) {
	if strings.TrimSpace(req.Msg.Message) == "" {
		return nil, invalid("message is required")
	}
	_, self, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if self == nil || self.Status == models.StatusRejected {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotApproved)
	}

	entry := &models.LogEntry{Message: req.Msg.Message}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		return nil, s.storeError("AppendLog", err)
	}
	return connect.NewResponse(&api.AppendLogResponse{Entry: api.FromLogEntry(entry)}), nil
}
