package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/fundkeeper/internal/auth"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def", want: "abc.def"},
		{name: "missing", header: "", wantErr: auth.ErrMissingToken},
		{name: "wrong scheme", header: "Basic abc", wantErr: auth.ErrInvalidToken},
		{name: "no token", header: "Bearer", wantErr: auth.ErrInvalidToken},
		{name: "extra parts", header: "Bearer a b", wantErr: auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("bearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("bearerToken(%q) unexpected error: %v", tt.header, err)
			}
			if got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if GetIdentity(ctx) != nil || GetUserID(ctx) != "" {
		t.Fatal("expected no identity on a bare context")
	}

	ctx = WithIdentity(ctx, &auth.Identity{UID: "u1", DisplayName: "Alice"})
	if got := GetUserID(ctx); got != "u1" {
		t.Errorf("GetUserID = %q, want %q", got, "u1")
	}
	if got := GetIdentity(ctx).DisplayName; got != "Alice" {
		t.Errorf("DisplayName = %q, want %q", got, "Alice")
	}
}
