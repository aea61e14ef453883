package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"splitlink/internal/models"
	"splitlink/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitlink-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testSnapshot(id, createdAt string) *models.ExpenseSnapshot {
	serviceCharge := 1.25
	return &models.ExpenseSnapshot{
		ID:        id,
		GroupID:   "g1",
		GroupName: "Flatmates",
		PayerID:   "m1",
		Members: []models.GroupMember{
			{ID: "m2", Name: "Quinn", Wallet: "0x2"},
			{ID: "m3", Name: "Rae", Wallet: "0x3"},
			{ID: "m1", Name: "Pat", Wallet: "0x1"},
		},
		Expense: models.ExpenseDocument{
			Merchant: "Corner Cafe",
			Date:     "2025-06-01",
			Currency: "USD",
			Items: []models.LineItem{
				{ID: "0-a", Name: "Coffee", Qty: 2, Price: 3.50, Category: models.CategoryDrinks},
				{ID: "1-b", Name: "Sandwich", Qty: 1, Price: 8.00, Category: models.CategoryFood},
			},
			Subtotal:      15.00,
			Tax:           1.50,
			ServiceCharge: &serviceCharge,
			Total:         17.75,
			Notes:         "team lunch",
		},
		Shares: []models.Share{
			{MemberID: "m2", Amount: 7.50},
			{MemberID: "m3", Amount: 7.50},
		},
		CreatedAt: createdAt,
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Upsert and Get round-trip preserves order", func(t *testing.T) {
		original := testSnapshot("snap-1", "2025-06-01T12:00:00Z")
		if err := store.Upsert(ctx, original); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		got, err := store.Get(ctx, "snap-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if got.GroupName != original.GroupName || got.PayerID != original.PayerID {
			t.Errorf("snapshot fields mismatch: %+v", got)
		}
		if got.Expense.Merchant != "Corner Cafe" || got.Expense.Notes != "team lunch" {
			t.Errorf("expense fields mismatch: %+v", got.Expense)
		}
		if got.Expense.ServiceCharge == nil || *got.Expense.ServiceCharge != 1.25 {
			t.Errorf("service charge mismatch: %v", got.Expense.ServiceCharge)
		}

		// Member order is semantic (payer listed last here) and must survive.
		wantMembers := []string{"m2", "m3", "m1"}
		for i, m := range got.Members {
			if m.ID != wantMembers[i] {
				t.Errorf("member[%d] = %s, want %s", i, m.ID, wantMembers[i])
			}
		}

		wantItems := []string{"0-a", "1-b"}
		for i, item := range got.Expense.Items {
			if item.ID != wantItems[i] {
				t.Errorf("item[%d] = %s, want %s", i, item.ID, wantItems[i])
			}
		}
		if got.Expense.Items[0].Category != models.CategoryDrinks {
			t.Errorf("item category = %s, want drinks", got.Expense.Items[0].Category)
		}

		if len(got.Shares) != 2 || got.Shares[0].MemberID != "m2" || got.Shares[0].Amount != 7.50 {
			t.Errorf("shares mismatch: %+v", got.Shares)
		}
	})

	t.Run("Upsert replaces shares on recompute", func(t *testing.T) {
		snap := testSnapshot("snap-replace", "2025-06-02T12:00:00Z")
		if err := store.Upsert(ctx, snap); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		snap.Shares = []models.Share{{MemberID: "m2", Amount: 15.00}}
		if err := store.Upsert(ctx, snap); err != nil {
			t.Fatalf("second Upsert failed: %v", err)
		}

		got, err := store.Get(ctx, "snap-replace")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Shares) != 1 || got.Shares[0].Amount != 15.00 {
			t.Errorf("shares after replace = %+v", got.Shares)
		}
	})

	t.Run("Upsert generates id and createdAt", func(t *testing.T) {
		snap := testSnapshot("", "")
		if err := store.Upsert(ctx, snap); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if snap.ID == "" {
			t.Error("expected snapshot ID to be generated")
		}
		if snap.CreatedAt == "" {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("Get returns ErrNotFound for missing snapshot", func(t *testing.T) {
		_, err := store.Get(ctx, "nonexistent")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get = %v, want ErrNotFound", err)
		}
	})

	t.Run("Delete removes the snapshot", func(t *testing.T) {
		snap := testSnapshot("snap-del", "2025-06-03T12:00:00Z")
		if err := store.Upsert(ctx, snap); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		if err := store.Delete(ctx, "snap-del"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "snap-del"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get after delete = %v, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, "snap-del"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second Delete = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stamps := map[string]string{
		"snap-old": "2025-06-01T08:00:00Z",
		"snap-new": "2025-06-03T08:00:00Z",
		"snap-mid": "2025-06-02T08:00:00Z",
	}
	for id, createdAt := range stamps {
		if err := store.Upsert(ctx, testSnapshot(id, createdAt)); err != nil {
			t.Fatalf("Upsert %s failed: %v", id, err)
		}
	}

	snaps, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"snap-new", "snap-mid", "snap-old"}
	if len(snaps) != len(want) {
		t.Fatalf("got %d snapshots, want %d", len(snaps), len(want))
	}
	for i, id := range want {
		if snaps[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, snaps[i].ID, id)
		}
	}
}
