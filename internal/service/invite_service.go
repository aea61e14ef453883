// Package service orchestrates the invite codec, the allocation engine, and
// the snapshot store behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"splitlink/internal/invite"
	"splitlink/internal/models"
	"splitlink/internal/storage"
)

// InviteService creates, verifies, and accepts signed invites.
type InviteService struct {
	store   storage.Store
	codec   *invite.Codec
	baseURL string
}

// NewInviteService creates an InviteService. baseURL is the public origin the
// join link is built on (e.g. "https://split.example.com").
func NewInviteService(store storage.Store, codec *invite.Codec, baseURL string) *InviteService {
	return &InviteService{store: store, codec: codec, baseURL: baseURL}
}

// CreateInviteResult is the outcome of CreateInvite: the signed token, the
// shareable join URL carrying it, and the payload that was signed.
type CreateInviteResult struct {
	Token     string
	InviteURL string
	Payload   *models.InvitePayload
}

// CreateInvite builds an invite payload from a group and an extracted
// expense, assigns ids to the line items, signs it, and returns the token.
// The token is the durable state; nothing is persisted here.
func (s *InviteService) CreateInvite(ctx context.Context, group *models.Group, expense *models.ExpenseDocument, expenseID string) (*CreateInviteResult, error) {
	if expenseID == "" {
		return nil, &models.ValidationError{Fields: []string{"expenseId is required"}}
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}

	// Items arrive without ids from the extraction side; give each one an
	// id unique within the expense before the payload is signed.
	items := make([]models.LineItem, len(expense.Items))
	for i, item := range expense.Items {
		item.ID = fmt.Sprintf("%d-%s", i, uuid.New().String())
		items[i] = item
	}

	payload := &models.InvitePayload{
		GroupID:   group.ID,
		ExpenseID: expenseID,
		GroupName: group.Name,
		PayerID:   group.PayerID,
		Members:   group.Members,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Expense:   *expense,
	}
	payload.Expense.Items = items

	token, err := s.codec.Sign(payload)
	if err != nil {
		slog.Error("Failed to sign invite", "group_id", group.ID, "expense_id", expenseID, "error", err)
		return nil, err
	}

	return &CreateInviteResult{
		Token:     token,
		InviteURL: s.baseURL + "/join?token=" + url.QueryEscape(token),
		Payload:   payload.Normalized(),
	}, nil
}

// VerifyInvite authenticates a token and returns its normalized payload
// without side effects.
func (s *InviteService) VerifyInvite(ctx context.Context, token string) (*models.InvitePayload, error) {
	return s.codec.Verify(token)
}

// AcceptInvite verifies a token and materializes its payload as an expense
// snapshot. Accepting the same invite twice returns the existing snapshot
// untouched, so claimed shares survive re-joins.
func (s *InviteService) AcceptInvite(ctx context.Context, token string) (*models.ExpenseSnapshot, error) {
	payload, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, payload.ExpenseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		slog.Error("AcceptInvite: snapshot lookup failed", "expense_id", payload.ExpenseID, "error", err)
		return nil, err
	}

	snap := models.SnapshotFromPayload(payload)
	if err := s.store.Upsert(ctx, snap); err != nil {
		slog.Error("AcceptInvite: failed to save snapshot", "expense_id", payload.ExpenseID, "error", err)
		return nil, err
	}
	slog.Info("Invite accepted", "expense_id", snap.ID, "group_id", snap.GroupID)
	return snap, nil
}
