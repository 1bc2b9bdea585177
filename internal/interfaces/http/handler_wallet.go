package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/webautomy/relay/internal/entities"
)

func (h *Handler) GetWallet(c *gin.Context) {
	orgID := getOrgID(c)

	balance, err := h.wallets.Balance(c.Request.Context(), orgID)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Wallet temporarily unavailable"})
		return
	}

	txs, err := h.wallets.RecentTransactions(c.Request.Context(), orgID, 20)
	if err != nil {
		txs = []entities.WalletTransaction{}
	}

	c.JSON(http.StatusOK, gin.H{
		"balance_cents": balance,
		"transactions":  txs,
	})
}

// TopUpWallet credits the org's balance. MVP: no payment provider in the
// loop, the dashboard calls this after its own checkout flow completes.
func (h *Handler) TopUpWallet(c *gin.Context) {
	var payload struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.AmountCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
		return
	}

	orgID := getOrgID(c)
	if err := h.wallets.Credit(c.Request.Context(), orgID, payload.AmountCents, uuid.NewString(), "top-up"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Wallet temporarily unavailable"})
		return
	}

	balance, _ := h.wallets.Balance(c.Request.Context(), orgID)
	c.JSON(http.StatusOK, gin.H{"success": true, "balance_cents": balance})
}
