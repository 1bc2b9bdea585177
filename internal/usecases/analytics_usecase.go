package usecases

import (
	"context"
	"time"

	"github.com/webautomy/relay/internal/repository"
)

// AnalyticsUsecase aggregates the dashboard summary: plain counting queries
// plus the wallet balance.
type AnalyticsUsecase struct {
	contacts *repository.ContactRepository
	rules    *repository.RuleRepository
	messages *repository.MessageRepository
	wallets  *repository.WalletRepository
}

func NewAnalyticsUsecase(contacts *repository.ContactRepository, rules *repository.RuleRepository, messages *repository.MessageRepository, wallets *repository.WalletRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		contacts: contacts,
		rules:    rules,
		messages: messages,
		wallets:  wallets,
	}
}

type Summary struct {
	WalletBalanceCents int64 `json:"wallet_balance_cents"`
	TotalContacts      int   `json:"total_contacts"`
	ActiveRules        int   `json:"active_rules"`
	MessagesToday      int   `json:"messages_today"`
}

// Summary is best effort per card: one failed count zeroes its card rather
// than failing the whole dashboard.
func (u *AnalyticsUsecase) Summary(ctx context.Context, orgID int) Summary {
	var s Summary

	s.TotalContacts, _ = u.contacts.CountByOrg(ctx, orgID)
	s.ActiveRules, _ = u.rules.CountActive(ctx, orgID)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.MessagesToday, _ = u.messages.CountSince(ctx, orgID, startOfDay)

	s.WalletBalanceCents, _ = u.wallets.Balance(ctx, orgID)
	return s
}
