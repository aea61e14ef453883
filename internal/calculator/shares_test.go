package calculator

import (
	"testing"

	"splitlink/internal/models"
	"splitlink/internal/money"
)

func item(id string, qty, price float64) models.LineItem {
	return models.LineItem{ID: id, Name: id, Qty: qty, Price: price, Category: models.CategoryOther}
}

func shareMap(shares []models.Share) map[string]float64 {
	m := make(map[string]float64, len(shares))
	for _, s := range shares {
		m[s.MemberID] = s.Amount
	}
	return m
}

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.LineItem
		ownership    OwnershipMap
		validateFunc func(t *testing.T, shares []models.Share)
	}{
		{
			name:      "single claimant takes the whole item",
			items:     []models.LineItem{item("i1", 1, 10.00)},
			ownership: OwnershipMap{"i1": {"Q"}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				if len(shares) != 1 {
					t.Fatalf("got %d shares, want 1", len(shares))
				}
				if shares[0].MemberID != "Q" || shares[0].Amount != 10.00 {
					t.Errorf("share = %+v, want Q owing 10.00", shares[0])
				}
			},
		},
		{
			name:      "remainder cents go to earliest claimants",
			items:     []models.LineItem{item("i1", 1, 1.00)},
			ownership: OwnershipMap{"i1": {"A", "B", "C"}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				if got["A"] != 0.34 || got["B"] != 0.33 || got["C"] != 0.33 {
					t.Errorf("shares = %v, want A=0.34 B=0.33 C=0.33", got)
				}
			},
		},
		{
			name:      "reordering claimants moves the extra cent",
			items:     []models.LineItem{item("i1", 1, 1.00)},
			ownership: OwnershipMap{"i1": {"C", "B", "A"}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				if got["C"] != 0.34 || got["B"] != 0.33 || got["A"] != 0.33 {
					t.Errorf("shares = %v, want C=0.34 B=0.33 A=0.33", got)
				}
			},
		},
		{
			name:  "unclaimed items contribute nothing",
			items: []models.LineItem{item("i1", 1, 10.00), item("i2", 1, 99.99)},
			ownership: OwnershipMap{
				"i1": {"A", "B"},
				// i2 absent: nobody owes for it
			},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				if got["A"]+got["B"] != 10.00 {
					t.Errorf("total = %v, want 10.00 (unclaimed item excluded)", got["A"]+got["B"])
				}
			},
		},
		{
			name:      "empty claimant list means unclaimed",
			items:     []models.LineItem{item("i1", 1, 10.00)},
			ownership: OwnershipMap{"i1": {}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				if len(shares) != 0 {
					t.Errorf("got %d shares, want 0", len(shares))
				}
			},
		},
		{
			name:      "quantity multiplies the item total",
			items:     []models.LineItem{item("i1", 3, 2.50)},
			ownership: OwnershipMap{"i1": {"A", "B"}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				// 750 cents split two ways
				if got["A"] != 3.75 || got["B"] != 3.75 {
					t.Errorf("shares = %v, want 3.75 each", got)
				}
			},
		},
		{
			name:      "zero quantity defaults to one",
			items:     []models.LineItem{item("i1", 0, 4.00)},
			ownership: OwnershipMap{"i1": {"A"}},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				if got["A"] != 4.00 {
					t.Errorf("share = %v, want 4.00", got["A"])
				}
			},
		},
		{
			name: "cents accumulate across items",
			items: []models.LineItem{
				item("i1", 1, 0.01),
				item("i2", 1, 0.01),
				item("i3", 1, 0.01),
			},
			ownership: OwnershipMap{
				"i1": {"A", "B"},
				"i2": {"B", "A"},
				"i3": {"A"},
			},
			validateFunc: func(t *testing.T, shares []models.Share) {
				got := shareMap(shares)
				// A gets the cent of i1 and i3, B gets the cent of i2.
				if got["A"] != 0.02 || got["B"] != 0.01 {
					t.Errorf("shares = %v, want A=0.02 B=0.01", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := ComputeShares(tt.items, tt.ownership)
			tt.validateFunc(t, shares)
		})
	}
}

// Conservation: the sum of all shares equals the sum of claimed item totals
// exactly, in cents, for any claimant count.
func TestComputeSharesConservation(t *testing.T) {
	items := []models.LineItem{
		item("i1", 1, 10.00),
		item("i2", 2, 3.33),
		item("i3", 1, 0.07),
		item("i4", 1.5, 7.99),
		item("i5", 1, 100.01),
	}
	members := []string{"A", "B", "C", "D", "E", "F", "G"}

	for n := 1; n <= len(members); n++ {
		ownership := make(OwnershipMap)
		var wantCents int64
		for _, it := range items {
			ownership[it.ID] = members[:n]
			wantCents += money.ToCents(it.Total())
		}

		var gotCents int64
		for _, share := range ComputeShares(items, ownership) {
			gotCents += money.ToCents(share.Amount)
		}

		if gotCents != wantCents {
			t.Errorf("n=%d: distributed %d cents, want %d", n, gotCents, wantCents)
		}
	}
}

func TestComputeSharesDeterministicOrder(t *testing.T) {
	items := []models.LineItem{item("i1", 1, 9.00), item("i2", 1, 6.00)}
	ownership := OwnershipMap{"i1": {"B", "A"}, "i2": {"C"}}

	first := ComputeShares(items, ownership)
	for i := 0; i < 10; i++ {
		again := ComputeShares(items, ownership)
		if len(again) != len(first) {
			t.Fatalf("share count changed between runs")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("share order changed between runs: %v vs %v", again, first)
			}
		}
	}
}
