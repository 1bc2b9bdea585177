package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webautomy/relay/internal/entities"
)

// webhookEnvelope mirrors the Meta Cloud API delivery format. Everything is
// optional: status updates and media-only events carry no text message and
// are tolerated silently.
type webhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// VerifyWebhook answers Meta's subscription handshake.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// ReceiveWebhook ACKs the delivery immediately and hands the text message
// events to the automation pipeline in the background. Nothing that happens
// after the ACK is observable to Meta; a malformed envelope is tolerated
// silently to avoid retry storms.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var envelope webhookEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	events := extractTextEvents(envelope)
	c.JSON(http.StatusOK, gin.H{"status": "received"})

	for _, ev := range events {
		go func(ev entities.InboundEvent) {
			// Detached from the request: the ACK already went out and gin
			// cancels the request context when the handler returns.
			h.automation.ProcessInbound(context.Background(), ev)
		}(ev)
	}
}

// extractTextEvents flattens the envelope into inbound events, keeping only
// messages that carry a text body. Delivery receipts and media-only
// messages never reach the matcher.
func extractTextEvents(envelope webhookEnvelope) []entities.InboundEvent {
	var events []entities.InboundEvent
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			value := change.Value
			senderNames := make(map[string]string, len(value.Contacts))
			for _, contact := range value.Contacts {
				senderNames[contact.WaID] = contact.Profile.Name
			}
			for _, msg := range value.Messages {
				if msg.Text == nil {
					continue
				}
				name := senderNames[msg.From]
				if name == "" {
					name = "Unknown"
				}
				events = append(events, entities.InboundEvent{
					PhoneNumberID: value.Metadata.PhoneNumberID,
					From:          msg.From,
					SenderName:    name,
					Text:          msg.Text.Body,
					WAMessageID:   msg.ID,
				})
			}
		}
	}
	return events
}
