package auth

import (
	"context"
	"errors"
	"sync"
)

// ErrNotSignedIn is returned when an operation needs a signed-in identity.
var ErrNotSignedIn = errors.New("not signed in")

// TokenProvider is a Provider that signs in by validating a pre-issued
// identity token. The token doubles as the bearer credential presented to
// the document server.
type TokenProvider struct {
	jwtManager *JWTManager
	token      string

	mu        sync.Mutex
	current   *Identity
	listeners map[int]AuthStateFunc
	nextID    int
}

// Ensure TokenProvider implements Provider
var _ Provider = (*TokenProvider)(nil)

// NewTokenProvider creates a provider that signs in with token.
func NewTokenProvider(jwtManager *JWTManager, token string) *TokenProvider {
	return &TokenProvider{
		jwtManager: jwtManager,
		token:      token,
		listeners:  make(map[int]AuthStateFunc),
	}
}

// SignIn validates the configured token and notifies listeners.
func (p *TokenProvider) SignIn(ctx context.Context) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.token == "" {
		return nil, ErrMissingToken
	}

	id, err := p.jwtManager.Validate(p.token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.current = id
	p.mu.Unlock()

	p.notify(id)
	return id, nil
}

// SignOut clears the current identity and notifies listeners.
// Signing out while signed out is a no-op.
func (p *TokenProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	wasSignedIn := p.current != nil
	p.current = nil
	p.mu.Unlock()

	if wasSignedIn {
		p.notify(nil)
	}
	return nil
}

// Current returns the signed-in identity, or nil.
func (p *TokenProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Token returns the bearer token for the current identity.
func (p *TokenProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", ErrNotSignedIn
	}
	return p.token, nil
}

// OnAuthStateChanged registers fn for every transition.
func (p *TokenProvider) OnAuthStateChanged(fn AuthStateFunc) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *TokenProvider) notify(id *Identity) {
	p.mu.Lock()
	fns := make([]AuthStateFunc, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
