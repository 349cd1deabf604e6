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

// CorpRepository defines methods for interacting with corp accounts
type CorpRepository interface {
	GetByID(ctx context.Context, id string) (*models.Corp, error)
	GetAll(ctx context.Context) ([]*models.Corp, error)
	Create(ctx context.Context, corp *models.Corp) error
	Delete(ctx context.Context, id string) error
}

// PostgresCorpRepository is a PostgreSQL implementation of CorpRepository
type PostgresCorpRepository struct {
	db *database.Pool
}

// NewCorpRepository creates a new CorpRepository
func NewCorpRepository(db *database.Pool) CorpRepository {
	return &PostgresCorpRepository{
		db: db,
	}
}

// GetByID retrieves a corp by its corp ID
func (r *PostgresCorpRepository) GetByID(ctx context.Context, id string) (*models.Corp, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + constants.ColumnCorpID + `, ` + constants.ColumnName + `, ` + constants.ColumnCreatedAt + `
        FROM ` + constants.TableCorps + `
        WHERE ` + constants.ColumnCorpID + ` = $1
    `

	// Execute the query
	corp := &models.Corp{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&corp.ID,
		&corp.Name,
		&corp.CreatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Corp", id)
		}
		return nil, fmt.Errorf("failed to get corp by ID: %w", err)
	}

	return corp, nil
}

// GetAll retrieves all registered corps
func (r *PostgresCorpRepository) GetAll(ctx context.Context) ([]*models.Corp, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + constants.ColumnCorpID + `, ` + constants.ColumnName + `, ` + constants.ColumnCreatedAt + `
        FROM ` + constants.TableCorps + `
        ORDER BY ` + constants.ColumnCorpID + `
    `

	// Execute the query
	rows, err := r.db.QueryContext(ctx, query)

	// Log the query execution
	utils.LogDBQuery(
		query,
		nil,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get corps: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var corps []*models.Corp
	for rows.Next() {
		corp := &models.Corp{}
		if err := rows.Scan(&corp.ID, &corp.Name, &corp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan corp: %w", err)
		}
		corps = append(corps, corp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corps: %w", err)
	}

	return corps, nil
}

// Create registers a new corp
func (r *PostgresCorpRepository) Create(ctx context.Context, corp *models.Corp) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        INSERT INTO ` + constants.TableCorps + ` (` + constants.ColumnCorpID + `, ` + constants.ColumnName + `)
        VALUES ($1, $2)
        RETURNING ` + constants.ColumnCreatedAt + `
    `

	// Execute the query
	err := r.db.QueryRowContext(ctx, query, corp.ID, corp.Name).Scan(&corp.CreatedAt)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{corp.ID, corp.Name},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == constants.PGErrorDuplicateConstraint {
				return utils.NewDuplicateError("Corp", constants.ColumnCorpID, corp.ID)
			}
		}
		return fmt.Errorf("failed to create corp: %w", err)
	}

	log.Info().
		Str(constants.ColumnCorpID, corp.ID).
		Str("name", corp.Name).
		Msg("Corp registered")

	return nil
}

// Delete removes a corp
func (r *PostgresCorpRepository) Delete(ctx context.Context, id string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM " + constants.TableCorps + " WHERE " + constants.ColumnCorpID + " = $1"

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
		return fmt.Errorf("failed to delete corp: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Corp", id)
	}

	log.Info().
		Str(constants.ColumnCorpID, id).
		Msg("Corp deleted")

	return nil
}
