// Package gateway is the only path by which the client changes the store.
//
// Every mutation is validated before any I/O, checked against the actor's
// permissions, written under a bounded timeout and, once the write has
// succeeded, recorded with exactly one audit entry. A lost audit entry is
// logged but never fails or rolls back the mutation.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// DefaultTimeout bounds each remote call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// DefaultCurrency prefixes amounts in audit messages.
const DefaultCurrency = "₹"

// Operation names, used as errs.Error.Op and as the metric's kind label.
const (
	OpAddContributor    = "add-contributor"
	OpEditContributor   = "edit-contributor"
	OpDeleteContributor = "delete-contributor"
	OpAddExpense        = "add-expense"
	OpEditExpense       = "edit-expense"
	OpDeleteExpense     = "delete-expense"
	OpApproveUser       = "approve-user"
	OpRejectUser        = "reject-user"
	OpKickUser          = "kick-user"
	OpResendRequest     = "resend-request"
	OpListRequests      = "list-requests"
	OpListMembers       = "list-members"
)

// EditPolicy decides who may edit or delete ledger records.
type EditPolicy string

const (
	// PolicyOpen lets every approved member edit any record.
	PolicyOpen EditPolicy = "open"
	// PolicyAuthor limits edits to the record's creator and admins.
	PolicyAuthor EditPolicy = "author"
)

// Valid reports whether p is a known policy.
func (p EditPolicy) Valid() bool {
	return p == PolicyOpen || p == PolicyAuthor
}

// Actor is the signed-in user on whose behalf a mutation runs.
type Actor struct {
	UID    string
	Role   models.Role
	Status models.Status
}

// IsAdmin reports whether the actor is an approved admin.
func (a Actor) IsAdmin() bool {
	return a.Status == models.StatusApproved && a.Role == models.RoleAdmin
}

// Records looks up ledger records in the local replica.
// subscription.Manager satisfies it.
type Records interface {
	Contributor(id string) (models.Contributor, bool)
	Expense(id string) (models.Expense, bool)
}

var (
	errNotSignedIn   = errors.New("not signed in")
	errNotApproved   = errors.New("membership not approved")
	errNotAdmin      = errors.New("admin role required")
	errKickSelf      = errors.New("admins cannot remove themselves")
	errNotAuthor     = errors.New("only the creator or an admin may change this record")
	errNotResendable = errors.New("only a rejected request can be sent again")
)

// Gateway validates, authorizes and performs mutations against a store.
type Gateway struct {
	store    storage.Store
	records  Records
	timeout  time.Duration
	policy   EditPolicy
	currency string
	logger   *slog.Logger
	total    *prometheus.CounterVec
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithEditPolicy sets who may edit or delete records.
func WithEditPolicy(p EditPolicy) Option {
	return func(g *Gateway) { g.policy = p }
}

// WithRecords gives the gateway access to the replica, which the author
// edit policy needs to find a record's creator.
func WithRecords(r Records) Option {
	return func(g *Gateway) { g.records = r }
}

// WithCurrency sets the currency symbol used in audit messages.
func WithCurrency(symbol string) Option {
	return func(g *Gateway) { g.currency = symbol }
}

// WithMetrics registers the mutation counter with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(g *Gateway) { reg.MustRegister(g.total) }
}

// WithLogger sets the gateway's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// New creates a Gateway writing to store.
func New(store storage.Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:    store,
		timeout:  DefaultTimeout,
		policy:   PolicyOpen,
		currency: DefaultCurrency,
		logger:   slog.Default(),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundkeeper_mutations_total",
			Help: "mutations attempted through the gateway",
		}, []string{"kind", "result"}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// call runs fn under the remote timeout and classifies its failure.
func (g *Gateway) call(ctx context.Context, kind errs.Kind, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %v", errs.ErrTimeout, g.timeout, err)
	}
	return errs.New(kind, op, err)
}

// mutate performs write and, if it succeeds, appends the audit message.
func (g *Gateway) mutate(ctx context.Context, op string, write func(ctx context.Context) error, message func() string) error {
	if err := g.call(ctx, errs.KindMutation, op, write); err != nil {
		g.total.WithLabelValues(op, "error").Inc()
		g.logger.Error("Mutation failed", "op", op, "error", err)
		return err
	}
	g.total.WithLabelValues(op, "ok").Inc()

	msg := message()
	err := g.call(ctx, errs.KindLogAppend, op, func(ctx context.Context) error {
		return g.store.AppendLog(ctx, &models.LogEntry{Message: msg})
	})
	if err != nil {
		g.logger.Warn("Audit entry lost", "op", op, "message", msg, "error", err)
	} else {
		g.logger.Debug("Mutation recorded", "op", op, "message", msg)
	}
	return nil
}

func (g *Gateway) reject(op string, err *errs.Error) error {
	g.total.WithLabelValues(op, "rejected").Inc()
	g.logger.Debug("Mutation rejected", "op", op, "error", err)
	return err
}

func requireApproved(op string, a Actor) *errs.Error {
	if a.UID == "" {
		return errs.New(errs.KindPermission, op, errNotSignedIn)
	}
	if a.Status != models.StatusApproved {
		return errs.New(errs.KindPermission, op, errNotApproved)
	}
	return nil
}

func requireAdmin(op string, a Actor) *errs.Error {
	if err := requireApproved(op, a); err != nil {
		return err
	}
	if a.Role != models.RoleAdmin {
		return errs.New(errs.KindPermission, op, errNotAdmin)
	}
	return nil
}

// requireEditor applies the edit policy to a record created by createdBy.
func (g *Gateway) requireEditor(op string, a Actor, createdBy string, found bool) *errs.Error {
	if err := requireApproved(op, a); err != nil {
		return err
	}
	if g.policy != PolicyAuthor || a.IsAdmin() {
		return nil
	}
	if !found {
		return errs.New(errs.KindMutation, op, storage.ErrNotFound)
	}
	if createdBy == "" || createdBy != a.UID {
		return errs.New(errs.KindPermission, op, errNotAuthor)
	}
	return nil
}
