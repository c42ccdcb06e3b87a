// Package app wires the client core together and routes user commands.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/calculator"
	"github.com/mmynk/fundkeeper/internal/gateway"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/session"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/internal/subscription"
	"github.com/mmynk/fundkeeper/internal/view"
)

// Options tune a Client. The zero value is usable.
type Options struct {
	Currency   string
	Theme      view.Theme
	Timeout    time.Duration
	EditPolicy gateway.EditPolicy
	Registry   prometheus.Registerer
	Logger     *slog.Logger
}

// Client is one connected instance of the fund tracker.
type Client struct {
	provider auth.Provider
	sink     view.Sink
	logger   *slog.Logger
	currency string

	subs    *subscription.Manager
	gateway *gateway.Gateway
	session *session.Manager

	mu      sync.Mutex
	theme   view.Theme
	replica subscription.Replica
	seen    map[storage.Collection]bool
	synced  chan struct{}
	unwatch func()
}

// New composes a Client over provider and store rendering into sink.
func New(provider auth.Provider, store storage.Store, sink view.Sink, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Currency == "" {
		opts.Currency = gateway.DefaultCurrency
	}
	if !opts.Theme.Valid() {
		opts.Theme = view.ThemeLight
	}
	if opts.EditPolicy == "" {
		opts.EditPolicy = gateway.PolicyOpen
	}

	c := &Client{
		provider: provider,
		sink:     sink,
		logger:   opts.Logger,
		currency: opts.Currency,
		theme:    opts.Theme,
		seen:     make(map[storage.Collection]bool),
		synced:   make(chan struct{}),
	}

	c.subs = subscription.New(store, c, opts.Logger.With("component", "subscription"))

	gwOpts := []gateway.Option{
		gateway.WithTimeout(opts.Timeout),
		gateway.WithEditPolicy(opts.EditPolicy),
		gateway.WithCurrency(opts.Currency),
		gateway.WithRecords(c.subs),
		gateway.WithLogger(opts.Logger.With("component", "gateway")),
	}
	if opts.Registry != nil {
		gwOpts = append(gwOpts, gateway.WithMetrics(opts.Registry))
	}
	c.gateway = gateway.New(store, gwOpts...)

	c.session = session.New(provider, store, c.subs, c.gateway, c.sessionChanged,
		session.WithTimeout(opts.Timeout),
		session.WithLogger(opts.Logger.With("component", "session")),
	)
	return c
}

// Start shows the loading state, starts watching the identity provider and
// signs in.
func (c *Client) Start(ctx context.Context) error {
	c.sink.ShowLoading()

	c.mu.Lock()
	if c.unwatch == nil {
		c.unwatch = c.session.Watch(ctx)
	}
	c.mu.Unlock()

	if _, err := c.provider.SignIn(ctx); err != nil {
		c.sink.ShowError(fmt.Sprintf("sign-in failed: %v", err))
		return err
	}
	return nil
}

// Close stops watching the provider and ends the live feeds.
func (c *Client) Close() {
	c.mu.Lock()
	unwatch := c.unwatch
	c.unwatch = nil
	c.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	c.subs.Stop()
}

// Session returns the current session state.
func (c *Client) Session() session.State {
	return c.session.Current()
}

// Refresh re-runs the membership check.
func (c *Client) Refresh(ctx context.Context) error {
	return c.session.Refresh(ctx)
}

// Replica returns the latest local copy of the fund.
func (c *Client) Replica() subscription.Replica {
	return c.subs.Snapshot()
}

// WaitSynced blocks until every live query has delivered its first
// snapshot or failed.
func (c *Client) WaitSynced(ctx context.Context) error {
	c.mu.Lock()
	synced := c.synced
	c.mu.Unlock()

	select {
	case <-synced:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Theme returns the current theme.
func (c *Client) Theme() view.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// PendingRequests lists users waiting for approval.
func (c *Client) PendingRequests(ctx context.Context) ([]models.User, error) {
	return c.gateway.PendingRequests(ctx, c.session.Current().Actor())
}

// Members lists the approved users.
func (c *Client) Members(ctx context.Context) ([]models.User, error) {
	return c.gateway.Members(ctx, c.session.Current().Actor())
}

// CollectionChanged implements subscription.Listener.
func (c *Client) CollectionChanged(coll storage.Collection, r subscription.Replica) {
	c.mu.Lock()
	c.replica = r
	c.markSeenLocked(coll)
	c.mu.Unlock()

	c.render()
}

// SubscriptionFailed implements subscription.Listener.
func (c *Client) SubscriptionFailed(coll storage.Collection, err error) {
	c.mu.Lock()
	c.markSeenLocked(coll)
	c.mu.Unlock()

	c.sink.ShowError(err.Error())
}

func (c *Client) markSeenLocked(coll storage.Collection) {
	if c.seen[coll] {
		return
	}
	c.seen[coll] = true
	if len(c.seen) == len(subscription.Feeds) {
		close(c.synced)
	}
}

func (c *Client) sessionChanged(s session.State) {
	if s.Err != nil {
		c.sink.ShowError(s.Err.Error())
	}
	if s.Status != view.StatusAuthorized {
		c.mu.Lock()
		c.replica = subscription.Replica{}
		if len(c.seen) > 0 {
			c.seen = make(map[storage.Collection]bool)
			c.synced = make(chan struct{})
		}
		c.mu.Unlock()
	}
	c.render()
}

func (c *Client) render() {
	s := c.session.Current()

	c.mu.Lock()
	r := c.replica
	theme := c.theme
	c.mu.Unlock()

	state := view.State{
		Status:    s.Status,
		CanResend: s.Status == view.StatusRejected,
		Theme:     theme,
		Currency:  c.currency,
	}
	if s.Profile != nil {
		state.UserName = s.Profile.Name()
		state.Role = s.Profile.Role
	}
	if s.Status == view.StatusAuthorized {
		state.Contributors = r.Contributors
		state.Expenses = r.Expenses
		state.Logs = r.Logs
		state.Totals = r.Totals
		state.Members = calculator.MemberSummaries(r.Contributors, r.Expenses)
		state.Unavailable = r.Unavailable
	}
	c.sink.Render(state)
}
