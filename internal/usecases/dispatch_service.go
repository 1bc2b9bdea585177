package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/webautomy/relay/internal/entities"
	"github.com/webautomy/relay/internal/interfaces"
)

// DispatchService runs the metered outbound transaction:
// validate -> verify channel ownership -> debit fee -> send -> persist,
// refunding the fee when the send fails. Ordering is mandatory: the
// ownership check happens before any ledger mutation, and the refund is
// attempted even if persistence would have failed.
type DispatchService struct {
	channels interfaces.ChannelStore
	messages interfaces.MessageStore
	ledger   interfaces.Ledger
	sender   interfaces.Sender
	feeCents int64
}

func NewDispatchService(channels interfaces.ChannelStore, messages interfaces.MessageStore, ledger interfaces.Ledger, sender interfaces.Sender, feeCents int64) *DispatchService {
	return &DispatchService{
		channels: channels,
		messages: messages,
		ledger:   ledger,
		sender:   sender,
		feeCents: feeCents,
	}
}

// Dispatch sends one paid message through the org's channel and returns the
// provider message id.
func (s *DispatchService) Dispatch(ctx context.Context, orgID int, req entities.DispatchRequest) (string, error) {
	req.To = strings.TrimSpace(req.To)
	if req.To == "" || (req.Body == "" && req.MediaURL == "") {
		return "", fmt.Errorf("%w: recipient and body or media required", entities.ErrInvalidInput)
	}

	ch, err := s.channels.GetByID(ctx, req.ChannelID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown channel", entities.ErrForbidden)
		}
		return "", fmt.Errorf("resolve channel: %w", err)
	}
	if ch.OrgID != orgID {
		// A foreign channel id is indistinguishable from a missing one to
		// the caller.
		return "", fmt.Errorf("%w: channel not owned by org", entities.ErrForbidden)
	}

	correlationID := uuid.NewString()
	if err := s.ledger.DebitOrFail(ctx, orgID, s.feeCents, correlationID); err != nil {
		return "", err
	}

	receipt, err := s.sender.Send(ctx, *ch, entities.SendRequest{
		To:       req.To,
		Body:     req.Body,
		MediaURL: req.MediaURL,
		Media:    req.Media,
	})
	if err != nil {
		// Refund failure must never mask the original send error.
		if creditErr := s.ledger.Credit(ctx, orgID, s.feeCents, correlationID, "refund: send failed"); creditErr != nil {
			log.Printf("[DISPATCH] refund failed for org %d (correlation %s): %v", orgID, correlationID, creditErr)
		}
		return "", err
	}

	s.record(ctx, ch, nil, req.Body, req.MediaURL, receipt)
	return receipt.ExternalID, nil
}

// Reply sends through the channel without touching the ledger and persists
// the outbound row. Used by the automation path when reply metering is off.
func (s *DispatchService) Reply(ctx context.Context, ch entities.Channel, contactID *int, req entities.SendRequest) (string, error) {
	receipt, err := s.sender.Send(ctx, ch, req)
	if err != nil {
		return "", err
	}

	s.record(ctx, &ch, contactID, req.Body, req.MediaURL, receipt)
	return receipt.ExternalID, nil
}

// record persists the outbound message. Best effort: the paid send already
// happened, so a persistence failure is logged and never refunded.
func (s *DispatchService) record(ctx context.Context, ch *entities.Channel, contactID *int, body, mediaURL string, receipt entities.SendReceipt) {
	status := entities.StatusSent
	if receipt.Simulated {
		status = entities.StatusSimulated
	}

	msg := &entities.Message{
		OrgID:       ch.OrgID,
		ContactID:   contactID,
		ChannelID:   &ch.ID,
		Direction:   entities.DirectionOutbound,
		Content:     body,
		MediaURL:    mediaURL,
		Status:      status,
		WAMessageID: receipt.ExternalID,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		log.Printf("[DISPATCH] outbound message persist failed for org %d (wa id %s): %v", ch.OrgID, receipt.ExternalID, err)
	}
}
