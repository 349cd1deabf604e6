// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial data
// useful during local development. The seeding system works similarly to
// migrations, tracking executed seeds to ensure they only run once, making the
// process idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/database"
)

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial development data.
type Seeder struct {
	db *database.Pool
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db: db,
	}
}

// SeedDatabase seeds the database with initial data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	// Create seeds table if it doesn't exist
	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	// Get executed seeds
	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	// Run seeds that haven't been executed yet
	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"demo_corp", s.seedDemoCorp},
		{"sample_rule", s.seedSampleRule},
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during table creation, nil if successful
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - map[string]bool: A map containing names of executed seeds
//   - error: Any error encountered while retrieving seeds, nil if successful
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction.
// If the seed operation fails, the transaction is rolled back.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - name: The name of the seed operation
//   - seedFunc: The function that performs the seeding
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		// Run the seed
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		// Record the seed
		query := `INSERT INTO seeds (name) VALUES ($1)`
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedDemoCorp seeds a demo corp and agent for local development.
// The demo secret is a placeholder and never works against the real API,
// so imports and pushes against it fail loudly rather than silently.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - tx: The SQL transaction to use for the operation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) seedDemoCorp(ctx context.Context, tx *sql.Tx) error {
	corpQuery := `
		INSERT INTO wechat_corps (corp_id, name)
		VALUES ($1, $2)
		ON CONFLICT (corp_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, corpQuery, "wwdemo0000000000", "Demo Corp"); err != nil {
		return fmt.Errorf("failed to insert demo corp: %w", err)
	}

	agentQuery := `
		INSERT INTO wechat_agents (corp_id, agent_number, name, secret)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (corp_id, agent_number) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, agentQuery, "wwdemo0000000000", int64(1000001), "Demo Agent", "demo-secret"); err != nil {
		return fmt.Errorf("failed to insert demo agent: %w", err)
	}

	log.Info().
		Str("corp_id", "wwdemo0000000000").
		Msg("Demo corp seeding completed")

	return nil
}

// seedSampleRule seeds a draft interception rule attached to the demo agent.
// The rule has sync disabled and no remote rule_id, so it never reaches the
// remote API until someone edits it through the admin surface.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - tx: The SQL transaction to use for the operation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) seedSampleRule(ctx context.Context, tx *sql.Tx) error {
	var agentID int64
	lookupQuery := `SELECT id FROM wechat_agents WHERE corp_id = $1 AND agent_number = $2`
	if err := tx.QueryRowContext(ctx, lookupQuery, "wwdemo0000000000", int64(1000001)).Scan(&agentID); err != nil {
		return fmt.Errorf("failed to find demo agent: %w", err)
	}

	ruleQuery := `
		INSERT INTO intercept_rules (corp_id, agent_id, name, word_list, intercept_type, sync)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, ruleQuery,
		"wwdemo0000000000", agentID, "Sample Rule", `["forbidden"]`, "1", false)
	if err != nil {
		return fmt.Errorf("failed to insert sample rule: %w", err)
	}

	log.Info().
		Str("corp_id", "wwdemo0000000000").
		Msg("Sample rule seeding completed")

	return nil
}
