package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/middleware"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/pkg/api/apiconnect"
)

var (
	errNoProfile     = errors.New("caller has no profile")
	errNotApproved   = errors.New("membership not approved")
	errNotAdmin      = errors.New("admin role required")
	errOtherProfile  = errors.New("profiles can only be written by their owner")
	errStatusChange  = errors.New("only admins may change membership status")
	errUnknownStatus = errors.New("unknown status")
)

// DocumentService implements the Connect DocumentService over a storage.Store
// and enforces the access rules of the fund.
type DocumentService struct {
	store  storage.Store
	logger *slog.Logger
}

// Ensure DocumentService implements the handler interface
var _ apiconnect.DocumentServiceHandler = (*DocumentService)(nil)

// NewDocumentService creates a new DocumentService with the given storage backend.
func NewDocumentService(store storage.Store, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{store: store, logger: logger}
}

// caller returns the authenticated identity and its profile. The profile is
// nil when the caller has not created one yet.
func (s *DocumentService) caller(ctx context.Context) (*auth.Identity, *models.User, error) {
	id := middleware.GetIdentity(ctx)
	if id == nil {
		return nil, nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	u, err := s.store.GetUser(ctx, id.UID)
	if errors.Is(err, storage.ErrNotFound) {
		return id, nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load caller profile", "user_id", id.UID, "error", err)
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	return id, u, nil
}

// requireApproved returns the caller's profile if the caller is an approved member.
func (s *DocumentService) requireApproved(ctx context.Context) (*models.User, error) {
	_, u, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, errNoProfile)
	}
	if u.Status != models.StatusApproved {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotApproved)
	}
	return u, nil
}

func (s *DocumentService) requireAdmin(ctx context.Context) (*models.User, error) {
	u, err := s.requireApproved(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotAdmin)
	}
	return u, nil
}

func isAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin && u.Status == models.StatusApproved
}

// storeError maps a storage failure to a Connect error.
func (s *DocumentService) storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	s.logger.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func invalid(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
