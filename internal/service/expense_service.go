package service

import (
	"context"
	"fmt"
	"log/slog"

	"splitlink/internal/calculator"
	"splitlink/internal/models"
	"splitlink/internal/storage"
)

// ExpenseService manages stored snapshots: claiming items, recomputing
// shares, and preparing settlement data for the external ledger step.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Get retrieves one snapshot.
func (s *ExpenseService) Get(ctx context.Context, id string) (*models.ExpenseSnapshot, error) {
	return s.store.Get(ctx, id)
}

// List returns all snapshots, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]models.ExpenseSnapshot, error) {
	return s.store.List(ctx)
}

// Delete removes a snapshot.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Claim applies an ownership map to a stored expense: shares are recomputed
// from scratch in integer cents and persisted on the snapshot. Every item id
// in the map must exist on the expense and every claimant must be a group
// member; invalid references are caller errors, reported synchronously.
//
// Claimant order within each item is preserved exactly as given; it decides
// who absorbs indivisible remainder cents.
func (s *ExpenseService) Claim(ctx context.Context, expenseID string, ownership calculator.OwnershipMap) ([]models.Share, error) {
	snap, err := s.store.Get(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := validateOwnership(snap, ownership); err != nil {
		return nil, err
	}

	shares := calculator.ComputeShares(snap.Expense.Items, ownership)
	snap.Shares = shares
	if err := s.store.Upsert(ctx, snap); err != nil {
		slog.Error("Claim: failed to save shares", "expense_id", expenseID, "error", err)
		return nil, err
	}

	slog.Info("Shares recomputed", "expense_id", expenseID, "share_count", len(shares))
	return shares, nil
}

// SettlementView is everything the external ledger step needs to reference
// and pay off an expense: the derived numeric id and the rows still owed to
// the payer.
type SettlementView struct {
	ExpenseID    string               `json:"expenseId"`
	SettlementID int64                `json:"settlementId"`
	Currency     string               `json:"currency"`
	Rows         []calculator.OwedRow `json:"rows"`
}

// Settlement builds the settlement view for a stored expense.
func (s *ExpenseService) Settlement(ctx context.Context, expenseID string) (*SettlementView, error) {
	snap, err := s.store.Get(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	return &SettlementView{
		ExpenseID:    snap.ID,
		SettlementID: calculator.DeriveSettlementID(snap.ID),
		Currency:     snap.Expense.Currency,
		Rows:         calculator.OwedRows(snap),
	}, nil
}

func validateOwnership(snap *models.ExpenseSnapshot, ownership calculator.OwnershipMap) error {
	itemIDs := make(map[string]bool, len(snap.Expense.Items))
	for _, item := range snap.Expense.Items {
		itemIDs[item.ID] = true
	}
	memberIDs := make(map[string]bool, len(snap.Members))
	for _, m := range snap.Members {
		memberIDs[m.ID] = true
	}

	var fields []string
	for itemID, claimants := range ownership {
		if !itemIDs[itemID] {
			fields = append(fields, fmt.Sprintf("unknown item %q", itemID))
		}
		for _, memberID := range claimants {
			if !memberIDs[memberID] {
				fields = append(fields, fmt.Sprintf("unknown member %q on item %q", memberID, itemID))
			}
		}
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}
