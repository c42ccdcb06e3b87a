// Package subscription keeps the local replica of the fund in step with the
// document store.
//
// The Manager owns one live query per collection and the replica those
// queries feed. Every snapshot replaces its collection wholesale and the
// totals are recomputed before anyone is told about the change. Callbacks
// from a stopped generation are dropped, so nothing reaches the listener
// after Stop returns.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmynk/fundkeeper/internal/calculator"
	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// Feeds are the live queries opened by Start.
var Feeds = []storage.Query{
	{Collection: storage.CollectionContributors},
	{Collection: storage.CollectionExpenses, OrderBy: storage.OrderByDate},
	{Collection: storage.CollectionLogs, OrderBy: storage.OrderByTimestamp},
}

var errFeedClosed = errors.New("live feed closed by the store")

// Replica is a read-only copy of the local state.
type Replica struct {
	Contributors []models.Contributor
	Expenses     []models.Expense
	Logs         []models.LogEntry
	Totals       models.Totals

	// Unavailable lists collections whose live query failed. They are shown
	// empty until the next Start.
	Unavailable []storage.Collection
}

// Listener is told about every replica change. Calls are serialized and
// always carry the latest replica. A Listener must not call Stop.
type Listener interface {
	CollectionChanged(c storage.Collection, r Replica)
	SubscriptionFailed(c storage.Collection, err error)
}

// Manager owns the live queries and the replica they feed.
type Manager struct {
	store    storage.Store
	listener Listener
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	feedCtx    context.Context
	cancel     context.CancelFunc
	wg         *sync.WaitGroup
	live       map[storage.Collection]bool

	contributors []models.Contributor
	expenses     []models.Expense
	logs         []models.LogEntry
	totals       models.Totals
	unavailable  map[storage.Collection]error

	// emitMu serializes listener calls.
	emitMu sync.Mutex
}

// New creates a stopped Manager.
func New(store storage.Store, listener Listener, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:       store,
		listener:    listener,
		logger:      logger,
		live:        make(map[storage.Collection]bool),
		unavailable: make(map[storage.Collection]error),
		totals:      calculator.ComputeTotals(nil, nil),
	}
}

// Start opens a live query for every collection that does not have one.
// Calling Start while all queries are live is a no-op; calling it after a
// query failed reopens only that query. The returned error joins the
// failures to open; the other queries stay live either way.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		m.generation++
		// Feeds live until Stop, not until the caller's context ends.
		m.feedCtx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
		m.wg = &sync.WaitGroup{}
		m.logger.Info("Starting live queries", "generation", m.generation)
	}

	gen := m.generation
	var failed []error
	for _, q := range Feeds {
		if m.live[q.Collection] {
			continue
		}

		ch, err := m.store.Subscribe(m.feedCtx, q)
		if err != nil {
			err = errs.New(errs.KindSubscription, string(q.Collection), err)
			m.logger.Error("Failed to open live query", "collection", q.Collection, "error", err)
			m.unavailable[q.Collection] = err
			failed = append(failed, err)
			// emit needs m.mu, which Start holds.
			m.wg.Add(1)
			go func(wg *sync.WaitGroup, c storage.Collection, err error) {
				defer wg.Done()
				m.emit(gen, c, err)
			}(m.wg, q.Collection, err)
			continue
		}

		delete(m.unavailable, q.Collection)
		m.live[q.Collection] = true
		m.wg.Add(1)
		go m.pump(m.feedCtx, m.wg, gen, q.Collection, ch)
	}

	return errors.Join(failed...)
}

// Stop cancels every live query and clears the replica. When Stop returns
// no update from the stopped queries will be processed.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.cancel == nil {
		m.mu.Unlock()
		return
	}
	m.generation++
	m.cancel()
	wg := m.wg
	m.cancel, m.feedCtx, m.wg = nil, nil, nil
	m.live = make(map[storage.Collection]bool)
	m.unavailable = make(map[storage.Collection]error)
	m.contributors, m.expenses, m.logs = nil, nil, nil
	m.totals = calculator.ComputeTotals(nil, nil)
	m.mu.Unlock()

	wg.Wait()
	m.logger.Info("Stopped live queries")
}

// Running reports whether the Manager has been started and not stopped.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Snapshot returns a copy of the current replica.
func (m *Manager) Snapshot() Replica {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replicaLocked()
}

// Contributor looks up a contribution in the replica.
func (m *Manager) Contributor(id string) (models.Contributor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contributors {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contributor{}, false
}

// Expense looks up an expense in the replica.
func (m *Manager) Expense(id string) (models.Expense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return models.Expense{}, false
}

func (m *Manager) pump(ctx context.Context, wg *sync.WaitGroup, gen uint64, c storage.Collection, ch <-chan storage.Snapshot) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				if ctx.Err() == nil {
					m.fail(gen, c, errFeedClosed)
				}
				return
			}
			if snap.Err != nil {
				m.fail(gen, c, snap.Err)
				return
			}
			if snap.Collection != c {
				m.fail(gen, c, fmt.Errorf("feed for %s delivered %s", c, snap.Collection))
				return
			}
			m.apply(gen, snap)
		}
	}
}

// apply replaces one collection and recomputes the totals.
func (m *Manager) apply(gen uint64, snap storage.Snapshot) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.logger.Debug("Dropping snapshot from stopped feed", "collection", snap.Collection)
		return
	}

	switch snap.Collection {
	case storage.CollectionContributors:
		m.contributors = snap.Contributors
	case storage.CollectionExpenses:
		m.expenses = snap.Expenses
	case storage.CollectionLogs:
		m.logs = snap.Logs
	default:
		m.mu.Unlock()
		return
	}
	m.totals = calculator.ComputeTotals(m.contributors, m.expenses)
	m.mu.Unlock()

	m.logger.Debug("Applied snapshot", "collection", snap.Collection, "documents", snap.Len())
	m.emit(gen, snap.Collection, nil)
}

// fail marks a collection unavailable and empties it.
func (m *Manager) fail(gen uint64, c storage.Collection, cause error) {
	err := errs.New(errs.KindSubscription, string(c), cause)

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.live[c] = false
	m.unavailable[c] = err
	switch c {
	case storage.CollectionContributors:
		m.contributors = nil
	case storage.CollectionExpenses:
		m.expenses = nil
	case storage.CollectionLogs:
		m.logs = nil
	}
	m.totals = calculator.ComputeTotals(m.contributors, m.expenses)
	m.mu.Unlock()

	m.logger.Error("Live query failed", "collection", c, "error", cause)
	m.emit(gen, c, err)
}

// emit hands the latest replica to the listener unless gen was stopped.
func (m *Manager) emit(gen uint64, c storage.Collection, failure error) {
	if m.listener == nil {
		return
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	r := m.replicaLocked()
	m.mu.Unlock()

	if failure != nil {
		m.listener.SubscriptionFailed(c, failure)
	}
	m.listener.CollectionChanged(c, r)
}

func (m *Manager) replicaLocked() Replica {
	r := Replica{
		Contributors: slices.Clone(m.contributors),
		Expenses:     slices.Clone(m.expenses),
		Logs:         slices.Clone(m.logs),
		Totals:       m.totals,
	}
	for _, q := range Feeds {
		if _, ok := m.unavailable[q.Collection]; ok {
			r.Unavailable = append(r.Unavailable, q.Collection)
		}
	}
	return r
}
