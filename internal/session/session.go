// Package session turns identity-provider transitions into membership state.
//
// On sign-in the Manager loads (or creates) the user's profile and decides
// what the user may see. Only an approved profile starts the live feeds;
// signing out stops them.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/gateway"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/internal/view"
)

// State is the session as seen by the presentation layer.
type State struct {
	Status   view.Status
	Identity *auth.Identity
	Profile  *models.User

	// Err is the last profile failure, if any.
	Err error
}

// Actor returns the gateway actor for the signed-in profile.
func (s State) Actor() gateway.Actor {
	if s.Profile == nil {
		return gateway.Actor{}
	}
	return gateway.Actor{UID: s.Profile.ID, Role: s.Profile.Role, Status: s.Profile.Status}
}

// Subscriptions are the live feeds controlled by the session.
type Subscriptions interface {
	Start(ctx context.Context) error
	Stop()
}

// Resender sends a rejected user's request again.
type Resender interface {
	ResendRequest(ctx context.Context, a gateway.Actor) error
}

// Observer receives every session state change.
type Observer func(State)

// Manager tracks the signed-in user's membership.
type Manager struct {
	provider auth.Provider
	store    storage.Store
	subs     Subscriptions
	resender Resender
	observer Observer
	timeout  time.Duration
	logger   *slog.Logger

	// opMu serializes auth-state handling.
	opMu sync.Mutex

	mu    sync.Mutex
	state State
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds profile reads and writes.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New creates a signed-out Manager.
func New(provider auth.Provider, store storage.Store, subs Subscriptions, resender Resender, observer Observer, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		store:    store,
		subs:     subs,
		resender: resender,
		observer: observer,
		timeout:  gateway.DefaultTimeout,
		logger:   slog.Default(),
		state:    State{Status: view.StatusUnauthenticated},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Watch handles every auth-state transition of the provider until the
// returned function is called.
func (m *Manager) Watch(ctx context.Context) (stop func()) {
	return m.provider.OnAuthStateChanged(func(id *auth.Identity) {
		m.HandleAuthState(ctx, id)
	})
}

// Current returns the session state.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HandleAuthState reacts to a sign-in (id != nil) or sign-out (id == nil).
func (m *Manager) HandleAuthState(ctx context.Context, id *auth.Identity) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if id == nil {
		m.subs.Stop()
		m.logger.Info("Signed out")
		m.set(State{Status: view.StatusUnauthenticated})
		return
	}

	prev := m.Current()
	wasAuthorized := prev.Status == view.StatusAuthorized && prev.Identity != nil && prev.Identity.UID == id.UID

	profile, err := m.loadProfile(ctx, id)
	if err != nil {
		m.logger.Error("Failed to load profile", "uid", id.UID, "error", err)
		next := State{Status: view.StatusProfileError, Identity: id, Err: err}
		if wasAuthorized {
			// A failed check does not end an authorized session.
			next.Status, next.Profile = prev.Status, prev.Profile
		}
		m.set(next)
		return
	}

	next := State{Identity: id, Profile: profile}
	switch profile.Status {
	case models.StatusApproved:
		next.Status = view.StatusAuthorized
	case models.StatusRejected:
		next.Status = view.StatusRejected
	default:
		next.Status = view.StatusAwaitingApproval
	}

	if next.Status != view.StatusAuthorized {
		if prev.Status == view.StatusAuthorized {
			m.subs.Stop()
		}
		m.logger.Info("Session not authorized", "uid", id.UID, "status", profile.Status)
		m.set(next)
		return
	}

	m.set(next)
	if !wasAuthorized {
		m.logger.Info("Session authorized", "uid", id.UID, "role", profile.Role)
		if err := m.subs.Start(ctx); err != nil {
			// Failed feeds are reported through the subscription listener.
			m.logger.Warn("Some live queries did not start", "error", err)
		}
	}
}

// Refresh re-runs the membership check for the signed-in identity.
func (m *Manager) Refresh(ctx context.Context) error {
	id := m.Current().Identity
	if id == nil {
		return errs.New(errs.KindAuth, "refresh", auth.ErrNotSignedIn)
	}
	m.HandleAuthState(ctx, id)
	return m.Current().Err
}

// Resend asks the admins to reconsider a rejected request.
func (m *Manager) Resend(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	s := m.Current()
	if err := m.resender.ResendRequest(ctx, s.Actor()); err != nil {
		return err
	}

	profile := *s.Profile
	profile.Status = models.StatusPending
	m.set(State{Status: view.StatusAwaitingApproval, Identity: s.Identity, Profile: &profile})
	return nil
}

// loadProfile reads the profile for id, creating a pending one on first
// sign-in. The profile is keyed by id, so concurrent first sign-ins write
// the same document.
func (m *Manager) loadProfile(ctx context.Context, id *auth.Identity) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	u, err := m.store.GetUser(ctx, id.UID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, errs.New(errs.KindProfile, "get-profile", err)
	}

	u = models.NewPendingUser(id.UID, id.DisplayName, id.Email)
	if err := m.store.SetUser(ctx, u); err != nil {
		return nil, errs.New(errs.KindProfile, "create-profile", err)
	}
	m.logger.Info("Created profile", "uid", id.UID)
	return u, nil
}

func (m *Manager) set(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(s)
	}
}
