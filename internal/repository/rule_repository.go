package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webautomy/relay/internal/entities"
)

type RuleRepository struct {
	db *pgxpool.Pool
}

func NewRuleRepository(db *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = "id, org_id, trigger_keyword, match_type, reply_message, is_active, priority, created_at"

func scanRule(row pgx.Row) (*entities.AutomationRule, error) {
	var rule entities.AutomationRule
	err := row.Scan(&rule.ID, &rule.OrgID, &rule.TriggerKeyword, &rule.MatchType,
		&rule.ReplyMessage, &rule.IsActive, &rule.Priority, &rule.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ActiveByOrg returns active rules in firing order. The ordering is the
// matcher's tie-break: first match in this order wins, so it must be stable
// (priority, then age, then id).
func (r *RuleRepository) ActiveByOrg(ctx context.Context, orgID int) ([]entities.AutomationRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM automation_rules
		WHERE org_id = $1 AND is_active = TRUE
		ORDER BY priority ASC, created_at ASC, id ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []entities.AutomationRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *RuleRepository) ListByOrg(ctx context.Context, orgID int) ([]entities.AutomationRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM automation_rules
		WHERE org_id = $1
		ORDER BY priority ASC, created_at ASC, id ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []entities.AutomationRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *RuleRepository) Create(ctx context.Context, rule *entities.AutomationRule) (*entities.AutomationRule, error) {
	return scanRule(r.db.QueryRow(ctx, `
		INSERT INTO automation_rules (org_id, trigger_keyword, match_type, reply_message, is_active, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+ruleColumns,
		rule.OrgID, rule.TriggerKeyword, rule.MatchType, rule.ReplyMessage, rule.IsActive, rule.Priority))
}

func (r *RuleRepository) Delete(ctx context.Context, orgID, ruleID int) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM automation_rules WHERE id = $1 AND org_id = $2", ruleID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *RuleRepository) CountActive(ctx context.Context, orgID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM automation_rules WHERE org_id = $1 AND is_active = TRUE",
		orgID).Scan(&count)
	return count, err
}
