package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webautomy/relay/internal/entities"
)

// SendMessage is the paid outbound API. The dispatch service owns the
// debit -> send -> persist-or-refund sequence; this handler only shapes the
// request and maps the error taxonomy onto status codes.
func (h *Handler) SendMessage(c *gin.Context) {
	var payload struct {
		ChannelID int    `json:"channel_id"`
		To        string `json:"to"`
		Body      string `json:"body"`
		MediaURL  string `json:"mediaUrl"`
		MediaType string `json:"mediaType"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if payload.ChannelID == 0 || payload.To == "" || (payload.Body == "" && payload.MediaURL == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if !ValidPhone(payload.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient number"})
		return
	}
	if !ValidateLength(payload.Body, 0, MaxBodyLength) || !ValidateLength(payload.MediaURL, 0, MaxMediaURLLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload too large"})
		return
	}

	externalID, err := h.dispatch.Dispatch(c.Request.Context(), getOrgID(c), entities.DispatchRequest{
		ChannelID: payload.ChannelID,
		To:        payload.To,
		Body:      SanitizeString(payload.Body),
		MediaURL:  payload.MediaURL,
		Media:     NormalizeMediaKind(payload.MediaType),
	})
	if err != nil {
		status := dispatchErrorStatus(err)
		c.JSON(status, gin.H{"error": dispatchErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message_id": externalID})
}

// dispatchErrorStatus maps the error taxonomy without leaking internals.
func dispatchErrorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, entities.ErrRemoteSend):
		return http.StatusBadGateway
	case errors.Is(err, entities.ErrLedgerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func dispatchErrorMessage(err error) string {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return "Missing required fields"
	case errors.Is(err, entities.ErrForbidden):
		return "Unauthorized channel access"
	case errors.Is(err, entities.ErrInsufficientFunds):
		return "Insufficient wallet balance"
	case errors.Is(err, entities.ErrRemoteSend):
		return "WhatsApp send failed"
	case errors.Is(err, entities.ErrLedgerUnavailable):
		return "Wallet temporarily unavailable"
	default:
		return "Internal error"
	}
}
