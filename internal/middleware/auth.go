package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the authenticated identity from the context.
// Returns nil if not found.
func GetIdentity(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.UID
	}
	return ""
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns an interceptor that validates bearer tokens on every
// unary and streaming call and adds the identity to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.Interceptor {
	return &authInterceptor{jwtManager: jwtManager}
}

type authInterceptor struct {
	jwtManager *auth.JWTManager
}

func (i *authInterceptor) authenticate(ctx context.Context, header string) (context.Context, error) {
	token, err := bearerToken(header)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	id, err := i.jwtManager.Validate(token)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return WithIdentity(ctx, id), nil
}

func (i *authInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Header().Get("Authorization"))
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *authInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *authInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.RequestHeader().Get("Authorization"))
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

// TokenSource returns the bearer token to present on outgoing calls.
type TokenSource func() (string, error)

// BearerToken returns a client interceptor that sets the Authorization
// header on every outgoing unary and streaming call.
func BearerToken(source TokenSource) connect.Interceptor {
	return &bearerInterceptor{source: source}
}

type bearerInterceptor struct {
	source TokenSource
}

func (i *bearerInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			token, err := i.source()
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			req.Header().Set("Authorization", "Bearer "+token)
		}
		return next(ctx, req)
	}
}

func (i *bearerInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if token, err := i.source(); err == nil {
			conn.RequestHeader().Set("Authorization", "Bearer "+token)
		}
		return conn
	}
}

func (i *bearerInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
