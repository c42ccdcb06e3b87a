// Package remote implements storage.Store against a fundkeeper document
// server over Connect.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/middleware"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/pkg/api"
	"github.com/mmynk/fundkeeper/pkg/api/apiconnect"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

var errStreamEnded = errors.New("live query ended by the server")

// Store is a storage.Store backed by a remote document server.
type Store struct {
	client     apiconnect.DocumentServiceClient
	httpClient connect.HTTPClient
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(c connect.HTTPClient) Option {
	return func(s *Store) { s.httpClient = c }
}

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store talking to the server at baseURL. Every call presents
// the bearer token returned by tokens.
func New(baseURL string, tokens middleware.TokenSource, opts ...Option) *Store {
	s := &Store{
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = apiconnect.NewDocumentServiceClient(s.httpClient, baseURL,
		connect.WithInterceptors(middleware.BearerToken(tokens)),
	)
	return s
}

// translate maps Connect error codes back to storage and context errors.
func translate(err error) error {
	switch connect.CodeOf(err) {
	case connect.CodeNotFound:
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	case connect.CodeDeadlineExceeded:
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	case connect.CodeCanceled:
		return fmt.Errorf("%w: %v", context.Canceled, err)
	default:
		return err
	}
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	resp, err := s.client.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{ID: id}))
	if err != nil {
		return nil, translate(err)
	}
	if resp.Msg.User == nil {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return api.ToUser(resp.Msg.User), nil
}

func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	_, err := s.client.SetUser(ctx, connect.NewRequest(&api.SetUserRequest{User: api.FromUser(user)}))
	return translate(err)
}

func (s *Store) UpdateUserStatus(ctx context.Context, id string, status models.Status) error {
	_, err := s.client.UpdateUserStatus(ctx, connect.NewRequest(&api.UpdateUserStatusRequest{ID: id, Status: string(status)}))
	return translate(err)
}

func (s *Store) ListUsersByStatus(ctx context.Context, status models.Status) ([]models.User, error) {
	resp, err := s.client.ListUsers(ctx, connect.NewRequest(&api.ListUsersRequest{Status: string(status)}))
	if err != nil {
		return nil, translate(err)
	}
	return api.ToUsers(resp.Msg.Users), nil
}

func (s *Store) CreateContributor(ctx context.Context, c *models.Contributor) error {
	resp, err := s.client.CreateContributor(ctx, connect.NewRequest(&api.CreateContributorRequest{
		Contributor: api.FromContributor(c),
	}))
	if err != nil {
		return translate(err)
	}
	c.ID = resp.Msg.Contributor.ID
	c.CreatedBy = resp.Msg.Contributor.CreatedBy
	return nil
}

func (s *Store) UpdateContributor(ctx context.Context, c *models.Contributor) error {
	_, err := s.client.UpdateContributor(ctx, connect.NewRequest(&api.UpdateContributorRequest{
		Contributor: api.FromContributor(c),
	}))
	return translate(err)
}

func (s *Store) DeleteContributor(ctx context.Context, id string) error {
	_, err := s.client.DeleteContributor(ctx, connect.NewRequest(&api.DeleteContributorRequest{ID: id}))
	return translate(err)
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	resp, err := s.client.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		Expense: api.FromExpense(e),
	}))
	if err != nil {
		return translate(err)
	}
	e.ID = resp.Msg.Expense.ID
	e.CreatedBy = resp.Msg.Expense.CreatedBy
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *models.Expense) error {
	_, err := s.client.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		Expense: api.FromExpense(e),
	}))
	return translate(err)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	_, err := s.client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ID: id}))
	return translate(err)
}

func (s *Store) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	resp, err := s.client.AppendLog(ctx, connect.NewRequest(&api.AppendLogRequest{Message: entry.Message}))
	if err != nil {
		return translate(err)
	}
	entry.ID = resp.Msg.Entry.ID
	entry.Timestamp = resp.Msg.Entry.Timestamp
	return nil
}

// Close releases idle connections held by the HTTP client.
func (s *Store) Close() error {
	if c, ok := s.httpClient.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
	return nil
}
