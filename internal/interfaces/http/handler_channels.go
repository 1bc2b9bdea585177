package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webautomy/relay/internal/entities"
)

// ConnectChannel upserts a WhatsApp channel for the caller's org. The
// access token comes from the embedded-signup flow on the dashboard side;
// reconnecting the same phone number refreshes the credential.
func (h *Handler) ConnectChannel(c *gin.Context) {
	var payload struct {
		PhoneNumberID string `json:"phone_number_id"`
		WABAID        string `json:"waba_id"`
		AccessToken   string `json:"access_token"`
		DisplayName   string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if payload.PhoneNumberID == "" || payload.WABAID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone_number_id or waba_id"})
		return
	}

	displayName := payload.DisplayName
	if displayName == "" {
		displayName = "WhatsApp Business"
	}

	ch, err := h.channels.Upsert(c.Request.Context(), &entities.Channel{
		OrgID:         getOrgID(c),
		PhoneNumberID: payload.PhoneNumberID,
		WABAID:        payload.WABAID,
		AccessToken:   payload.AccessToken,
		DisplayName:   SanitizeString(displayName),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp onboarding failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "channel": ch})
}

func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.channels.ListByOrg(c.Request.Context(), getOrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load channels"})
		return
	}
	c.JSON(http.StatusOK, channels)
}
