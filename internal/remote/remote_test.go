package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/app"
	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/middleware"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/service"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/internal/storage/sqlite"
	"github.com/mmynk/fundkeeper/internal/view"
	"github.com/mmynk/fundkeeper/pkg/api/apiconnect"
)

var jwtManager = auth.NewJWTManager("remote-test-secret", time.Hour)

// setupTestServer starts a document server and returns its backing store and URL.
func setupTestServer(t *testing.T) (*sqlite.SQLiteStore, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "fundkeeper-remote-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	backing, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to create store: %v", err)
	}

	path, handler := apiconnect.NewDocumentServiceHandler(
		service.NewDocumentService(backing, nil),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		backing.Close()
		os.RemoveAll(tempDir)
	})
	return backing, server.URL
}

func tokenFor(t *testing.T, uid string) middleware.TokenSource {
	t.Helper()
	token, err := jwtManager.Generate(auth.Identity{UID: uid, DisplayName: uid})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return func() (string, error) { return token, nil }
}

func seed(t *testing.T, backing *sqlite.SQLiteStore, uid string, role models.Role, status models.Status) {
	t.Helper()
	if err := backing.SetUser(context.Background(), &models.User{ID: uid, DisplayName: uid, Role: role, Status: status}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func receive(t *testing.T, ch <-chan storage.Snapshot) storage.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("snapshot channel closed")
		}
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return storage.Snapshot{}
}

func TestStoreRoundTrip(t *testing.T) {
	backing, url := setupTestServer(t)
	seed(t, backing, "uid-alice", models.RoleAdmin, models.StatusApproved)
	store := New(url, tokenFor(t, "uid-alice"))
	defer store.Close()
	ctx := context.Background()

	if _, err := store.GetUser(ctx, "uid-nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := store.Subscribe(subCtx, storage.Query{Collection: storage.CollectionExpenses, OrderBy: storage.OrderByDate})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if snap := receive(t, ch); snap.Err != nil || len(snap.Expenses) != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}

	e := &models.Expense{Date: "2024-03-01", Desc: "Rent", Spender: "Bob", Amount: decimal.RequireFromString("200.50")}
	if err := store.CreateExpense(ctx, e); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if e.ID == "" || e.CreatedBy != "uid-alice" {
		t.Errorf("server-assigned fields missing: %+v", e)
	}

	snap := receive(t, ch)
	if len(snap.Expenses) != 1 {
		t.Fatalf("expected 1 expense, got %+v", snap)
	}
	got := snap.Expenses[0]
	if got.Date != e.Date || got.Desc != e.Desc || got.Spender != e.Spender || !got.Amount.Equal(e.Amount) {
		t.Errorf("expense did not round-trip: %+v", got)
	}

	entry := &models.LogEntry{Message: "hello"}
	if err := store.AppendLog(ctx, entry); err != nil {
		t.Fatalf("AppendLog failed: %v", err)
	}
	if entry.ID == "" || entry.Timestamp.IsZero() {
		t.Errorf("log entry not stamped: %+v", entry)
	}

	if err := store.DeleteContributor(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	cancel()
	for range ch {
	}
}

func TestSubscribeFailureIsReported(t *testing.T) {
	backing, url := setupTestServer(t)
	seed(t, backing, "uid-pending", models.RoleMember, models.StatusPending)
	store := New(url, tokenFor(t, "uid-pending"))

	ch, err := store.Subscribe(context.Background(), storage.Query{Collection: storage.CollectionLogs})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	snap := receive(t, ch)
	if snap.Err == nil || connect.CodeOf(snap.Err) != connect.CodePermissionDenied {
		t.Fatalf("expected permission error snapshot, got %+v", snap)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should close after an error snapshot")
	}
}

func TestDeadlineExceeded(t *testing.T) {
	_, url := setupTestServer(t)
	store := New(url, tokenFor(t, "uid-alice"))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if _, err := store.GetUser(ctx, "uid-alice"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

type lastStateSink struct {
	states chan view.State
}

func (s *lastStateSink) Render(state view.State) {
	select {
	case s.states <- state:
	default:
	}
}

func (s *lastStateSink) ShowLoading()     {}
func (s *lastStateSink) ShowError(string) {}

func TestClientOverRemoteStore(t *testing.T) {
	backing, url := setupTestServer(t)
	seed(t, backing, "uid-alice", models.RoleMember, models.StatusApproved)

	token, err := jwtManager.Generate(auth.Identity{UID: "uid-alice", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	provider := auth.NewTokenProvider(jwtManager, token)
	store := New(url, provider.Token)
	sink := &lastStateSink{states: make(chan view.State, 64)}
	client := app.New(provider, store, sink, app.Options{Currency: "$", Timeout: 5 * time.Second})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := client.WaitSynced(ctx); err != nil {
		t.Fatalf("WaitSynced failed: %v", err)
	}

	if err := client.Dispatch(ctx, app.AddFund{Name: "Alice", Amount: "500"}); err != nil {
		t.Fatalf("AddFund failed: %v", err)
	}
	if err := client.Dispatch(ctx, app.AddExpense{Date: "2024-03-01", Desc: "Rent", Spender: "Bob", Amount: "200"}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		r := client.Replica()
		if r.Totals.Balance.Equal(decimal.NewFromInt(300)) && len(r.Logs) == 2 {
			break
		}
		select {
		case <-sink.states:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("replica did not converge: %+v", client.Replica())
		}
	}
}
