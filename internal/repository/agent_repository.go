package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/database"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
)

// AgentRepository defines methods for interacting with application agents
type AgentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Agent, error)
	GetAll(ctx context.Context) ([]*models.Agent, error)
	GetByCorp(ctx context.Context, corpID string) ([]*models.Agent, error)
	Create(ctx context.Context, agent *models.Agent) error
	Delete(ctx context.Context, id int64) error
}

// PostgresAgentRepository is a PostgreSQL implementation of AgentRepository
type PostgresAgentRepository struct {
	db *database.Pool
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db *database.Pool) AgentRepository {
	return &PostgresAgentRepository{
		db: db,
	}
}

// agentColumns is the select list shared by all agent queries.
const agentColumns = constants.ColumnID + ", " + constants.ColumnCorpID + ", " +
	constants.ColumnAgentNumber + ", " + constants.ColumnName + ", " +
	constants.ColumnSecret + ", " + constants.ColumnCreatedAt

// scanAgent scans a single agent row
func scanAgent(row interface{ Scan(...interface{}) error }) (*models.Agent, error) {
	agent := &models.Agent{}
	err := row.Scan(
		&agent.ID,
		&agent.CorpID,
		&agent.AgentNumber,
		&agent.Name,
		&agent.Secret,
		&agent.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetByID retrieves an agent by its ID
func (r *PostgresAgentRepository) GetByID(ctx context.Context, id int64) (*models.Agent, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + agentColumns + `
        FROM ` + constants.TableAgents + `
        WHERE ` + constants.ColumnID + ` = $1
    `

	// Execute the query
	agent, err := scanAgent(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Agent", id)
		}
		return nil, fmt.Errorf("failed to get agent by ID: %w", err)
	}

	return agent, nil
}

// GetAll retrieves all registered agents across all corps
func (r *PostgresAgentRepository) GetAll(ctx context.Context) ([]*models.Agent, error) {
	query := `
        SELECT ` + agentColumns + `
        FROM ` + constants.TableAgents + `
        ORDER BY ` + constants.ColumnCorpID + `, ` + constants.ColumnAgentNumber + `
    `
	return r.queryAgents(ctx, query)
}

// GetByCorp retrieves all agents registered for a corp
func (r *PostgresAgentRepository) GetByCorp(ctx context.Context, corpID string) ([]*models.Agent, error) {
	query := `
        SELECT ` + agentColumns + `
        FROM ` + constants.TableAgents + `
        WHERE ` + constants.ColumnCorpID + ` = $1
        ORDER BY ` + constants.ColumnAgentNumber + `
    `
	return r.queryAgents(ctx, query, corpID)
}

// queryAgents executes a multi-row agent query
func (r *PostgresAgentRepository) queryAgents(ctx context.Context, query string, args ...interface{}) ([]*models.Agent, error) {
	// Start query timer
	startTime := time.Now()

	// Execute the query
	rows, err := r.db.QueryContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get agents: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var agents []*models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

// Create registers a new agent
func (r *PostgresAgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        INSERT INTO ` + constants.TableAgents + ` (` + constants.ColumnCorpID + `, ` + constants.ColumnAgentNumber + `, ` + constants.ColumnName + `, ` + constants.ColumnSecret + `)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + constants.ColumnID + `, ` + constants.ColumnCreatedAt + `
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		agent.CorpID,
		agent.AgentNumber,
		agent.Name,
		agent.Secret,
	).Scan(&agent.ID, &agent.CreatedAt)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{agent.CorpID, agent.AgentNumber, agent.Name, "[REDACTED]"},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for constraint violations
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case constants.PGErrorDuplicateConstraint:
				return utils.NewDuplicateError("Agent", constants.ColumnAgentNumber, agent.AgentNumber)
			case constants.PGErrorForeignKeyViolation:
				return utils.NewNotFoundError("Corp", agent.CorpID)
			}
		}
		return fmt.Errorf("failed to create agent: %w", err)
	}

	log.Info().
		Int64(constants.ColumnID, agent.ID).
		Str(constants.ColumnCorpID, agent.CorpID).
		Int64(constants.ColumnAgentNumber, agent.AgentNumber).
		Msg("Agent registered")

	return nil
}

// Delete removes an agent
func (r *PostgresAgentRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM " + constants.TableAgents + " WHERE " + constants.ColumnID + " = $1"

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Agent", id)
	}

	log.Info().
		Int64(constants.ColumnID, id).
		Msg("Agent deleted")

	return nil
}
