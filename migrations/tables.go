package migrations

import (
	"context"
	"database/sql"
)

// createCorpsTable creates the wechat_corps table
func createCorpsTable() Migration {
	return Migration{
		Name:        "create_wechat_corps_table",
		Description: "Creates the wechat_corps table",
		TableName:   "wechat_corps",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS wechat_corps (
					corp_id VARCHAR(64) PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createAgentsTable creates the wechat_agents table
func createAgentsTable() Migration {
	return Migration{
		Name:        "create_wechat_agents_table",
		Description: "Creates the wechat_agents table",
		TableName:   "wechat_agents",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS wechat_agents (
					id BIGSERIAL PRIMARY KEY,
					corp_id VARCHAR(64) NOT NULL,
					agent_number BIGINT NOT NULL,
					name VARCHAR(255) NOT NULL,
					secret VARCHAR(255) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_agent_corp FOREIGN KEY (corp_id) REFERENCES wechat_corps(corp_id) ON DELETE CASCADE,
					CONSTRAINT idx_corp_agent UNIQUE (corp_id, agent_number)
				);
				CREATE INDEX IF NOT EXISTS idx_agents_corp_id ON wechat_agents(corp_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createInterceptRulesTable creates the intercept_rules table.
// The rule_id column stays NULL until a rule has been pushed upstream, and
// PostgreSQL treats NULLs as distinct, so the unique constraint only binds
// rules that carry a remote identifier.
func createInterceptRulesTable() Migration {
	return Migration{
		Name:        "create_intercept_rules_table",
		Description: "Creates the intercept_rules table",
		TableName:   "intercept_rules",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS intercept_rules (
					id BIGSERIAL PRIMARY KEY,
					corp_id VARCHAR(64) NOT NULL,
					agent_id BIGINT NOT NULL,
					rule_id VARCHAR(64),
					name VARCHAR(64) NOT NULL,
					word_list TEXT NOT NULL DEFAULT '[]',
					semantics_list TEXT NOT NULL DEFAULT '[]',
					intercept_type VARCHAR(8),
					applicable_user_list TEXT NOT NULL DEFAULT '[]',
					applicable_department_list TEXT NOT NULL DEFAULT '[]',
					sync BOOLEAN,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_rule_agent FOREIGN KEY (agent_id) REFERENCES wechat_agents(id) ON DELETE CASCADE,
					CONSTRAINT idx_corp_rule UNIQUE (corp_id, rule_id)
				);
				CREATE INDEX IF NOT EXISTS idx_rules_corp_id ON intercept_rules(corp_id);
				CREATE INDEX IF NOT EXISTS idx_rules_agent_id ON intercept_rules(agent_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// GetMigrations returns all migrations in the order they should be run.
// Corps must exist before agents, and agents before rules, because of the
// foreign key constraints between them.
//
// Returns:
//   - []Migration: An ordered slice of all database migrations
func GetMigrations() []Migration {
	return []Migration{
		createCorpsTable(),
		createAgentsTable(),
		createInterceptRulesTable(),
	}
}
