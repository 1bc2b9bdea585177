package usecases

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/webautomy/relay/internal/entities"
	"github.com/webautomy/relay/internal/interfaces"
)

// AutomationService processes acknowledged inbound webhook events: dedup,
// channel-to-org routing, contact upsert, message persistence, and the
// keyword matcher. It runs after the webhook has been ACKed, so every
// failure here is logged and none is surfaced upstream.
type AutomationService struct {
	channels interfaces.ChannelStore
	contacts interfaces.ContactStore
	messages interfaces.MessageStore
	rules    interfaces.RuleStore
	dedup    interfaces.DeliveryDedup
	dispatch *DispatchService

	// MeterReplies routes auto-replies through the paid dispatch path.
	// Off by default: the dashboard product treats keyword replies as free.
	MeterReplies bool
}

func NewAutomationService(channels interfaces.ChannelStore, contacts interfaces.ContactStore, messages interfaces.MessageStore, rules interfaces.RuleStore, dedup interfaces.DeliveryDedup, dispatch *DispatchService) *AutomationService {
	return &AutomationService{
		channels: channels,
		contacts: contacts,
		messages: messages,
		rules:    rules,
		dedup:    dedup,
		dispatch: dispatch,
	}
}

// MatchRule returns the first rule whose trigger matches the text, or nil.
// Both sides are lowercased and trimmed; "exact" requires equality, any
// other match type means substring. First match in slice order wins; the
// slice order is the rule store's firing order and is never re-sorted here.
func MatchRule(rules []entities.AutomationRule, text string) *entities.AutomationRule {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	for i := range rules {
		trigger := strings.ToLower(strings.TrimSpace(rules[i].TriggerKeyword))
		if rules[i].MatchType == entities.MatchExact {
			if normalized == trigger {
				return &rules[i]
			}
			continue
		}
		if strings.Contains(normalized, trigger) {
			return &rules[i]
		}
	}
	return nil
}

// ProcessInbound handles one text message event end to end.
func (s *AutomationService) ProcessInbound(ctx context.Context, ev entities.InboundEvent) {
	if ev.WAMessageID != "" && s.dedup != nil && s.dedup.Seen(ctx, ev.WAMessageID) {
		log.Printf("[AUTOMATION] duplicate delivery %s, skipping", ev.WAMessageID)
		return
	}

	ch, err := s.channels.GetByPhoneNumberID(ctx, ev.PhoneNumberID)
	if err != nil {
		log.Printf("[AUTOMATION] webhook for unknown phone_number_id %s: %v", ev.PhoneNumberID, err)
		return
	}

	contact, err := s.contacts.Upsert(ctx, ch.OrgID, ev.From, ev.SenderName)
	if err != nil {
		log.Printf("[AUTOMATION] contact upsert failed for org %d: %v", ch.OrgID, err)
		return
	}

	inbound := &entities.Message{
		OrgID:       ch.OrgID,
		ContactID:   &contact.ID,
		ChannelID:   &ch.ID,
		Direction:   entities.DirectionInbound,
		Content:     ev.Text,
		Status:      entities.StatusDelivered,
		WAMessageID: ev.WAMessageID,
	}
	if err := s.messages.Insert(ctx, inbound); err != nil {
		log.Printf("[AUTOMATION] inbound message persist failed for org %d: %v", ch.OrgID, err)
		return
	}

	if strings.TrimSpace(ev.Text) == "" {
		return
	}

	rules, err := s.rules.ActiveByOrg(ctx, ch.OrgID)
	if err != nil {
		log.Printf("[AUTOMATION] rule fetch failed for org %d: %v", ch.OrgID, err)
		return
	}

	rule := MatchRule(rules, ev.Text)
	if rule == nil {
		return
	}
	log.Printf("[AUTOMATION] rule %d matched for org %d (trigger %q)", rule.ID, ch.OrgID, rule.TriggerKeyword)

	if s.MeterReplies {
		_, err = s.dispatch.Dispatch(ctx, ch.OrgID, entities.DispatchRequest{
			ChannelID: ch.ID,
			To:        ev.From,
			Body:      rule.ReplyMessage,
		})
		if errors.Is(err, entities.ErrInsufficientFunds) {
			log.Printf("[AUTOMATION] reply skipped for org %d: insufficient balance", ch.OrgID)
			return
		}
	} else {
		_, err = s.dispatch.Reply(ctx, *ch, &contact.ID, entities.SendRequest{
			To:   ev.From,
			Body: rule.ReplyMessage,
		})
	}
	if err != nil {
		log.Printf("[AUTOMATION] auto-reply send failed for org %d: %v", ch.OrgID, err)
	}
}
