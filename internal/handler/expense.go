package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"splitlink/internal/calculator"
	"splitlink/internal/service"
)

// ExpenseHandler serves stored snapshots, claims, and settlement views.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// List handles GET /api/v1/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	snaps, err := h.expenses.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// Get handles GET /api/v1/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	snap, err := h.expenses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Delete handles DELETE /api/v1/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ClaimRequest maps item ids to the ordered member ids claiming them.
// List order is meaningful and is preserved verbatim: remainder cents go to
// the earliest claimants.
type ClaimRequest struct {
	Ownership calculator.OwnershipMap `json:"ownership"`
}

// Claim handles PUT /api/v1/expenses/:id/claims.
func (h *ExpenseHandler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shares, err := h.expenses.Claim(c.Request.Context(), c.Param("id"), req.Ownership)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

// Settlement handles GET /api/v1/expenses/:id/settlement.
func (h *ExpenseHandler) Settlement(c *gin.Context) {
	view, err := h.expenses.Settlement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
