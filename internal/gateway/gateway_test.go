package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/internal/storage/sqlite"
)

// spyStore counts writes and can fail or stall them.
type spyStore struct {
	storage.Store

	mu      sync.Mutex
	writes  int
	failLog error
	stall   bool
}

func (s *spyStore) record(ctx context.Context) error {
	s.mu.Lock()
	s.writes++
	stall := s.stall
	s.mu.Unlock()
	if stall {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *spyStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *spyStore) CreateContributor(ctx context.Context, c *models.Contributor) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.CreateContributor(ctx, c)
}

func (s *spyStore) UpdateContributor(ctx context.Context, c *models.Contributor) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.UpdateContributor(ctx, c)
}

func (s *spyStore) DeleteContributor(ctx context.Context, id string) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.DeleteContributor(ctx, id)
}

func (s *spyStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.CreateExpense(ctx, e)
}

func (s *spyStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.UpdateExpense(ctx, e)
}

func (s *spyStore) DeleteExpense(ctx context.Context, id string) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.DeleteExpense(ctx, id)
}

func (s *spyStore) UpdateUserStatus(ctx context.Context, id string, status models.Status) error {
	if err := s.record(ctx); err != nil {
		return err
	}
	return s.Store.UpdateUserStatus(ctx, id, status)
}

func (s *spyStore) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	s.mu.Lock()
	s.writes++
	failLog := s.failLog
	s.mu.Unlock()
	if failLog != nil {
		return failLog
	}
	return s.Store.AppendLog(ctx, entry)
}

func newTestStore(t *testing.T) *spyStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "fundkeeper-gateway-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(tempDir)
	})
	return &spyStore{Store: store}
}

// current reads the present content of a collection through a live query.
func current(t *testing.T, store storage.Store, q storage.Query) storage.Snapshot {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Subscribe(ctx, q)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	select {
	case snap := <-ch:
		if snap.Err != nil {
			t.Fatalf("snapshot error: %v", snap.Err)
		}
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return storage.Snapshot{}
}

func logs(t *testing.T, store storage.Store) []models.LogEntry {
	return current(t, store, storage.Query{Collection: storage.CollectionLogs, OrderBy: storage.OrderByTimestamp}).Logs
}

var (
	member = Actor{UID: "u-member", Role: models.RoleMember, Status: models.StatusApproved}
	admin  = Actor{UID: "u-admin", Role: models.RoleAdmin, Status: models.StatusApproved}
)

func TestValidationMakesNoWrites(t *testing.T) {
	store := newTestStore(t)
	g := New(store)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty name", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: " ", Amount: "10"})
			return err
		}},
		{"missing amount", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice"})
			return err
		}},
		{"non-numeric amount", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "ten"})
			return err
		}},
		{"zero amount", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "0"})
			return err
		}},
		{"negative amount", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "-5"})
			return err
		}},
		{"huge exponent", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "1e50000000"})
			return err
		}},
		{"too many decimal places", func() error {
			_, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "0.000000001"})
			return err
		}},
		{"huge expense", func() error {
			_, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-03-01", Desc: "Rent", Spender: "Bob", Amount: "1e50000000"})
			return err
		}},
		{"missing date", func() error {
			_, err := g.AddExpense(ctx, member, ExpenseInput{Desc: "Rent", Spender: "Bob", Amount: "1"})
			return err
		}},
		{"impossible date", func() error {
			_, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-02-30", Desc: "Rent", Spender: "Bob", Amount: "1"})
			return err
		}},
		{"empty description", func() error {
			_, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-03-01", Spender: "Bob", Amount: "1"})
			return err
		}},
		{"missing spender", func() error {
			_, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-03-01", Desc: "Rent", Amount: "1"})
			return err
		}},
		{"edit without id", func() error {
			return g.UpdateContributor(ctx, member, "", ContributionInput{Name: "Alice", Amount: "1"})
		}},
		{"delete without id", func() error {
			return g.DeleteExpense(ctx, member, "  ")
		}},
		{"approve without id", func() error {
			return g.ApproveUser(ctx, admin, "")
		}},
		// Validation runs before the permission check.
		{"unapproved actor with bad input", func() error {
			_, err := g.AddContributor(ctx, Actor{}, ContributionInput{Name: "Alice", Amount: "0"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errs.Is(err, errs.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if got := store.writeCount(); got != 0 {
		t.Errorf("validation failures made %d writes", got)
	}
}

func TestAddContributor(t *testing.T) {
	store := newTestStore(t)
	g := New(store)
	ctx := context.Background()

	// First contribution
	c, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "500"})
	if err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}
	if c.ID == "" || c.CreatedBy != member.UID || !c.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected contributor: %+v", c)
	}

	snap := current(t, store, storage.Query{Collection: storage.CollectionContributors})
	if len(snap.Contributors) != 1 {
		t.Fatalf("expected 1 contributor, got %d", len(snap.Contributors))
	}

	entries := logs(t, store)
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 log entry, got %d", len(entries))
	}
	if want := "Alice added fund: ₹500"; entries[0].Message != want {
		t.Errorf("log message = %q, want %q", entries[0].Message, want)
	}
}

func TestAddAndDeleteExpense(t *testing.T) {
	store := newTestStore(t)
	g := New(store, WithCurrency("$"))
	ctx := context.Background()

	if _, err := g.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "500"}); err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}
	e, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-03-01", Desc: "Rent", Spender: "Bob", Amount: "200"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	got := current(t, store, storage.Query{Collection: storage.CollectionExpenses, OrderBy: storage.OrderByDate}).Expenses
	if len(got) != 1 || got[0].Date != "2024-03-01" || got[0].Desc != "Rent" || got[0].Spender != "Bob" || !got[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expense did not round-trip: %+v", got)
	}

	// Deleting the expense restores the balance
	if err := g.DeleteExpense(ctx, member, e.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	entries := logs(t, store)
	want := []string{
		"An expense record was deleted.",
		`Bob added expense for "Rent": $200`,
		"Alice added fund: $500",
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d log entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Message != w {
			t.Errorf("log[%d] = %q, want %q", i, entries[i].Message, w)
		}
	}
}

func TestUpdateExpenseKeepsSpender(t *testing.T) {
	store := newTestStore(t)
	g := New(store)
	ctx := context.Background()

	e, err := g.AddExpense(ctx, member, ExpenseInput{Date: "2024-03-01", Desc: "Rent", Spender: "Bob", Amount: "200"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if err := g.UpdateExpense(ctx, member, e.ID, ExpenseInput{Date: "2024-03-02", Desc: "Rent (March)", Amount: "210"}); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	got := current(t, store, storage.Query{Collection: storage.CollectionExpenses}).Expenses
	if len(got) != 1 || got[0].Spender != "Bob" || got[0].Desc != "Rent (March)" {
		t.Fatalf("unexpected expense after edit: %+v", got)
	}
	if msg := logs(t, store)[0].Message; msg != `Expense "Rent (March)" was edited.` {
		t.Errorf("log message = %q", msg)
	}
}

func TestMutationOfMissingRecordFails(t *testing.T) {
	store := newTestStore(t)
	g := New(store)

	err := g.UpdateContributor(context.Background(), member, "missing", ContributionInput{Name: "Alice", Amount: "1"})
	if !errs.Is(err, errs.KindMutation) || !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not-found mutation error, got %v", err)
	}
	if n := len(logs(t, store)); n != 0 {
		t.Errorf("failed mutation appended %d log entries", n)
	}
}

func TestLogAppendFailureIsSwallowed(t *testing.T) {
	store := newTestStore(t)
	store.failLog = errors.New("quota exceeded")
	reg := prometheus.NewRegistry()
	g := New(store, WithMetrics(reg))

	c, err := g.AddContributor(context.Background(), member, ContributionInput{Name: "Alice", Amount: "10"})
	if err != nil {
		t.Fatalf("mutation should succeed when the log append fails, got %v", err)
	}
	snap := current(t, store, storage.Query{Collection: storage.CollectionContributors})
	if len(snap.Contributors) != 1 || snap.Contributors[0].ID != c.ID {
		t.Fatalf("contributor was not kept: %+v", snap.Contributors)
	}
	if got := testutil.ToFloat64(g.total.WithLabelValues(OpAddContributor, "ok")); got != 1 {
		t.Errorf("ok counter = %v, want 1", got)
	}
}

func TestRemoteTimeout(t *testing.T) {
	store := newTestStore(t)
	store.stall = true
	g := New(store, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := g.AddContributor(context.Background(), member, ContributionInput{Name: "Alice", Amount: "10"})
	if !errs.Is(err, errs.KindMutation) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	if !errors.Is(err, errs.ErrTimeout) {
		t.Errorf("expected timeout cause, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
	if got := testutil.ToFloat64(g.total.WithLabelValues(OpAddContributor, "error")); got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
}

type fakeRecords struct {
	contributors map[string]models.Contributor
}

func (f fakeRecords) Contributor(id string) (models.Contributor, bool) {
	c, ok := f.contributors[id]
	return c, ok
}

func (f fakeRecords) Expense(string) (models.Expense, bool) {
	return models.Expense{}, false
}

func TestPermissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pending := Actor{UID: "u-pending", Role: models.RoleMember, Status: models.StatusPending}
	other := Actor{UID: "u-other", Role: models.RoleMember, Status: models.StatusApproved}

	open := New(store)
	c, err := open.AddContributor(ctx, member, ContributionInput{Name: "Alice", Amount: "5"})
	if err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}
	author := New(store, WithEditPolicy(PolicyAuthor), WithRecords(fakeRecords{
		contributors: map[string]models.Contributor{c.ID: *c},
	}))

	tests := []struct {
		name string
		call func() error
		kind errs.Kind
	}{
		{"anonymous add", func() error {
			_, err := open.AddContributor(ctx, Actor{}, ContributionInput{Name: "Eve", Amount: "1"})
			return err
		}, errs.KindPermission},
		{"pending add", func() error {
			_, err := open.AddExpense(ctx, pending, ExpenseInput{Date: "2024-01-01", Desc: "x", Spender: "y", Amount: "1"})
			return err
		}, errs.KindPermission},
		{"member approves", func() error { return open.ApproveUser(ctx, member, "u-pending") }, errs.KindPermission},
		{"member lists requests", func() error {
			_, err := open.PendingRequests(ctx, member)
			return err
		}, errs.KindPermission},
		{"admin kicks self", func() error { return open.KickUser(ctx, admin, admin.UID) }, errs.KindPermission},
		{"open policy lets others edit", func() error {
			return open.UpdateContributor(ctx, other, c.ID, ContributionInput{Name: "Alice", Amount: "6"})
		}, ""},
		{"author policy refuses others", func() error {
			return author.DeleteContributor(ctx, other, c.ID)
		}, errs.KindPermission},
		{"author policy allows creator", func() error {
			return author.UpdateContributor(ctx, member, c.ID, ContributionInput{Name: "Alice", Amount: "7"})
		}, ""},
		{"author policy allows admin", func() error {
			return author.UpdateContributor(ctx, admin, c.ID, ContributionInput{Name: "Alice", Amount: "8"})
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errs.Is(err, tt.kind) {
				t.Fatalf("expected %q, got %v", tt.kind, err)
			}
		})
	}
}

func TestUserStatusChanges(t *testing.T) {
	store := newTestStore(t)
	g := New(store)
	ctx := context.Background()

	bob := models.NewPendingUser("u-bob", "Bob", "bob@example.com")
	if err := store.SetUser(ctx, bob); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	requests, err := g.PendingRequests(ctx, admin)
	if err != nil {
		t.Fatalf("PendingRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != bob.ID {
		t.Fatalf("unexpected pending requests: %+v", requests)
	}

	// approve, reject, resend
	if err := g.ApproveUser(ctx, admin, bob.ID); err != nil {
		t.Fatalf("ApproveUser failed: %v", err)
	}
	got, err := store.GetUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}
	members, err := g.Members(ctx, admin)
	if err != nil || len(members) != 1 {
		t.Fatalf("Members = %v, %v", members, err)
	}

	if err := g.KickUser(ctx, admin, bob.ID); err != nil {
		t.Fatalf("KickUser failed: %v", err)
	}

	bobActor := Actor{UID: bob.ID, Role: models.RoleMember, Status: models.StatusRejected}
	if err := g.ResendRequest(ctx, bobActor); err != nil {
		t.Fatalf("ResendRequest failed: %v", err)
	}
	if err := g.ResendRequest(ctx, bobActor); !errs.Is(err, errs.KindPermission) {
		t.Fatalf("second resend should be refused, got %v", err)
	}
	if err := g.RejectUser(ctx, admin, bob.ID); err != nil {
		t.Fatalf("RejectUser failed: %v", err)
	}

	entries := logs(t, store)
	want := []string{
		"Bob's request was rejected.",
		"Bob requested access again.",
		"Bob was removed from the fund.",
		"Bob was approved.",
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d log entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Message != w {
			t.Errorf("log[%d] = %q, want %q", i, entries[i].Message, w)
		}
	}

	if err := g.ApproveUser(ctx, admin, "u-nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("approving unknown user: expected not found, got %v", err)
	}
}
