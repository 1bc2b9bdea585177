package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS orgs (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'member',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS channels (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			platform VARCHAR(20) DEFAULT 'whatsapp',
			phone_number_id VARCHAR(64) NOT NULL,
			waba_id VARCHAR(64),
			access_token TEXT,
			display_name VARCHAR(255),
			status VARCHAR(20) DEFAULT 'connected',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (org_id, phone_number_id)
		);`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			phone VARCHAR(32) NOT NULL,
			name VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (org_id, phone)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			contact_id INT REFERENCES contacts(id),
			channel_id INT REFERENCES channels(id),
			direction VARCHAR(10) NOT NULL CHECK (direction IN ('inbound', 'outbound')),
			content TEXT,
			media_url TEXT,
			status VARCHAR(20) NOT NULL,
			wa_message_id VARCHAR(128),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS automation_rules (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			trigger_keyword VARCHAR(255) NOT NULL,
			match_type VARCHAR(20) DEFAULT 'contains',
			reply_message TEXT NOT NULL,
			is_active BOOLEAN DEFAULT TRUE,
			priority INT DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS wallets (
			org_id INT PRIMARY KEY REFERENCES orgs(id),
			balance_cents BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			id SERIAL PRIMARY KEY,
			org_id INT NOT NULL REFERENCES orgs(id),
			amount_cents BIGINT NOT NULL,
			tx_type VARCHAR(10) NOT NULL CHECK (tx_type IN ('debit', 'credit')),
			reference_id VARCHAR(64),
			reason VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_org_created ON messages (org_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_channels_phone_number ON channels (phone_number_id);`,
		`CREATE INDEX IF NOT EXISTS idx_rules_org_active ON automation_rules (org_id, is_active);`,
	}

	for _, stmt := range ddl {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
