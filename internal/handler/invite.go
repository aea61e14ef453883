// Package handler exposes the invite and expense services over HTTP JSON.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"splitlink/internal/invite"
	"splitlink/internal/models"
	"splitlink/internal/service"
	"splitlink/internal/storage"
)

// InviteHandler serves invite creation, verification, and acceptance.
type InviteHandler struct {
	invites *service.InviteService
}

// NewInviteHandler creates an InviteHandler.
func NewInviteHandler(invites *service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

// CreateInviteRequest is the payer-side request to mint an invite link.
type CreateInviteRequest struct {
	Group     models.Group           `json:"group"`
	Expense   models.ExpenseDocument `json:"expense"`
	ExpenseID string                 `json:"expenseId"`
}

// Create handles POST /api/v1/invites.
func (h *InviteHandler) Create(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.invites.CreateInvite(c.Request.Context(), &req.Group, &req.Expense, req.ExpenseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     result.Token,
		"inviteUrl": result.InviteURL,
	})
}

// Verify handles GET /api/v1/invites/verify?token=...
// On success it returns the decoded payload so the claimant UI can render
// the expense before anything is persisted.
func (h *InviteHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing invite token"})
		return
	}

	payload, err := h.invites.VerifyInvite(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// AcceptInviteRequest carries the token being accepted.
type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// Accept handles POST /api/v1/invites/accept: the claimant verifies the
// token and materializes it as a stored snapshot.
func (h *InviteHandler) Accept(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing invite token"})
		return
	}

	snap, err := h.invites.AcceptInvite(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// respondError maps the error taxonomy onto HTTP statuses. Bad tokens are
// collapsed into one user-facing message; the raw token and signature are
// never echoed or logged.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, invite.ErrMissingSecret):
		slog.Error("Invite secret missing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server is not configured for invites"})
	case errors.Is(err, invite.ErrMalformedToken), errors.Is(err, invite.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired invite"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
	default:
		slog.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
