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

// InterceptRuleRepository defines methods for interacting with stored interception rules
type InterceptRuleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.InterceptRule, error)
	GetByCorpAndRuleID(ctx context.Context, corpID, ruleID string) (*models.InterceptRule, error)
	List(ctx context.Context, page, pageSize int) ([]*models.InterceptRule, int, error)
	ListByCorp(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error)
	Create(ctx context.Context, rule *models.InterceptRule) error
	Update(ctx context.Context, rule *models.InterceptRule) error
	Delete(ctx context.Context, id int64) error
}

// PostgresInterceptRuleRepository is a PostgreSQL implementation of InterceptRuleRepository
type PostgresInterceptRuleRepository struct {
	db *database.Pool
}

// NewInterceptRuleRepository creates a new InterceptRuleRepository
func NewInterceptRuleRepository(db *database.Pool) InterceptRuleRepository {
	return &PostgresInterceptRuleRepository{
		db: db,
	}
}

// ruleColumns is the select list shared by all rule queries.
const ruleColumns = constants.ColumnID + ", " + constants.ColumnCorpID + ", " +
	constants.ColumnAgentID + ", " + constants.ColumnRuleID + ", " +
	constants.ColumnName + ", " + constants.ColumnWordList + ", " +
	constants.ColumnSemanticsList + ", " + constants.ColumnInterceptType + ", " +
	constants.ColumnApplicableUserList + ", " + constants.ColumnApplicableDepartmentList + ", " +
	constants.ColumnSync + ", " + constants.ColumnCreatedAt + ", " + constants.ColumnUpdatedAt

// scanRule scans a single interception rule row
func scanRule(row interface{ Scan(...interface{}) error }) (*models.InterceptRule, error) {
	rule := &models.InterceptRule{}
	var ruleID, interceptType sql.NullString
	var syncFlag sql.NullBool

	err := row.Scan(
		&rule.ID,
		&rule.CorpID,
		&rule.AgentID,
		&ruleID,
		&rule.Name,
		&rule.WordList,
		&rule.SemanticsList,
		&interceptType,
		&rule.ApplicableUserList,
		&rule.ApplicableDepartmentList,
		&syncFlag,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ruleID.Valid {
		rule.RuleID = &ruleID.String
	}
	if interceptType.Valid {
		it := models.InterceptType(interceptType.String)
		rule.InterceptType = &it
	}
	if syncFlag.Valid {
		rule.Sync = &syncFlag.Bool
	}

	return rule, nil
}

// nullableInterceptType converts the optional intercept type to a driver value
func nullableInterceptType(it *models.InterceptType) interface{} {
	if it == nil {
		return nil
	}
	return string(*it)
}

// GetByID retrieves a rule by its local ID
func (r *PostgresInterceptRuleRepository) GetByID(ctx context.Context, id int64) (*models.InterceptRule, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + ruleColumns + `
        FROM ` + constants.TableInterceptRules + `
        WHERE ` + constants.ColumnID + ` = $1
    `

	// Execute the query
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("InterceptRule", id)
		}
		return nil, fmt.Errorf("failed to get rule by ID: %w", err)
	}

	return rule, nil
}

// GetByCorpAndRuleID retrieves a rule by its corp and remote rule identifier.
// Returns a not found error when no local rule is bound to that remote ID.
func (r *PostgresInterceptRuleRepository) GetByCorpAndRuleID(ctx context.Context, corpID, ruleID string) (*models.InterceptRule, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        SELECT ` + ruleColumns + `
        FROM ` + constants.TableInterceptRules + `
        WHERE ` + constants.ColumnCorpID + ` = $1 AND ` + constants.ColumnRuleID + ` = $2
    `

	// Execute the query
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, corpID, ruleID))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{corpID, ruleID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("InterceptRule", ruleID)
		}
		return nil, fmt.Errorf("failed to get rule by corp and rule ID: %w", err)
	}

	return rule, nil
}

// List retrieves rules across all corps with pagination
func (r *PostgresInterceptRuleRepository) List(ctx context.Context, page, pageSize int) ([]*models.InterceptRule, int, error) {
	countQuery := "SELECT COUNT(*) FROM " + constants.TableInterceptRules
	query := `
        SELECT ` + ruleColumns + `
        FROM ` + constants.TableInterceptRules + `
        ORDER BY ` + constants.ColumnID + `
        LIMIT $1 OFFSET $2
    `
	offset := (page - 1) * pageSize
	return r.queryRules(ctx, countQuery, nil, query, []interface{}{pageSize, offset})
}

// ListByCorp retrieves rules for a single corp with pagination
func (r *PostgresInterceptRuleRepository) ListByCorp(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error) {
	countQuery := "SELECT COUNT(*) FROM " + constants.TableInterceptRules +
		" WHERE " + constants.ColumnCorpID + " = $1"
	query := `
        SELECT ` + ruleColumns + `
        FROM ` + constants.TableInterceptRules + `
        WHERE ` + constants.ColumnCorpID + ` = $1
        ORDER BY ` + constants.ColumnID + `
        LIMIT $2 OFFSET $3
    `
	offset := (page - 1) * pageSize
	return r.queryRules(ctx, countQuery, []interface{}{corpID}, query, []interface{}{corpID, pageSize, offset})
}

// queryRules executes a count query followed by a paginated rule query
func (r *PostgresInterceptRuleRepository) queryRules(ctx context.Context, countQuery string, countArgs []interface{}, query string, args []interface{}) ([]*models.InterceptRule, int, error) {
	// Get the total count first
	startTime := time.Now()
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
	utils.LogDBQuery(countQuery, countArgs, time.Since(startTime), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rules: %w", err)
	}

	// Execute the paginated query
	startTime = time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	var rules []*models.InterceptRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, total, nil
}

// Create inserts a new interception rule
func (r *PostgresInterceptRuleRepository) Create(ctx context.Context, rule *models.InterceptRule) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        INSERT INTO ` + constants.TableInterceptRules + ` (
            ` + constants.ColumnCorpID + `, ` + constants.ColumnAgentID + `, ` + constants.ColumnRuleID + `,
            ` + constants.ColumnName + `, ` + constants.ColumnWordList + `, ` + constants.ColumnSemanticsList + `,
            ` + constants.ColumnInterceptType + `, ` + constants.ColumnApplicableUserList + `,
            ` + constants.ColumnApplicableDepartmentList + `, ` + constants.ColumnSync + `, ` + constants.ColumnCreatedAt + `
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + constants.ColumnID + `, ` + constants.ColumnUpdatedAt + `
    `

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	args := []interface{}{
		rule.CorpID,
		rule.AgentID,
		rule.RuleID,
		rule.Name,
		rule.WordList,
		rule.SemanticsList,
		nullableInterceptType(rule.InterceptType),
		rule.ApplicableUserList,
		rule.ApplicableDepartmentList,
		rule.Sync,
		rule.CreatedAt,
	}

	// Execute the query
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.UpdatedAt)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for constraint violations
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case constants.PGErrorDuplicateConstraint:
				return utils.NewDuplicateError("InterceptRule", constants.ColumnRuleID, derefString(rule.RuleID))
			case constants.PGErrorForeignKeyViolation:
				return utils.NewNotFoundError("Agent", rule.AgentID)
			}
		}
		return fmt.Errorf("failed to create rule: %w", err)
	}

	log.Info().
		Int64(constants.ColumnID, rule.ID).
		Str(constants.ColumnCorpID, rule.CorpID).
		Str("rule_name", rule.Name).
		Msg("Interception rule created")

	return nil
}

// Update overwrites all mutable fields of an existing rule
func (r *PostgresInterceptRuleRepository) Update(ctx context.Context, rule *models.InterceptRule) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        UPDATE ` + constants.TableInterceptRules + `
        SET ` + constants.ColumnRuleID + ` = $1,
            ` + constants.ColumnName + ` = $2,
            ` + constants.ColumnWordList + ` = $3,
            ` + constants.ColumnSemanticsList + ` = $4,
            ` + constants.ColumnInterceptType + ` = $5,
            ` + constants.ColumnApplicableUserList + ` = $6,
            ` + constants.ColumnApplicableDepartmentList + ` = $7,
            ` + constants.ColumnSync + ` = $8,
            ` + constants.ColumnUpdatedAt + ` = CURRENT_TIMESTAMP
        WHERE ` + constants.ColumnID + ` = $9
    `

	args := []interface{}{
		rule.RuleID,
		rule.Name,
		rule.WordList,
		rule.SemanticsList,
		nullableInterceptType(rule.InterceptType),
		rule.ApplicableUserList,
		rule.ApplicableDepartmentList,
		rule.Sync,
		rule.ID,
	}

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == constants.PGErrorDuplicateConstraint {
			return utils.NewDuplicateError("InterceptRule", constants.ColumnRuleID, derefString(rule.RuleID))
		}
		return fmt.Errorf("failed to update rule: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("InterceptRule", rule.ID)
	}

	log.Info().
		Int64(constants.ColumnID, rule.ID).
		Str(constants.ColumnCorpID, rule.CorpID).
		Msg("Interception rule updated")

	return nil
}

// Delete removes a rule by its local ID
func (r *PostgresInterceptRuleRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := "DELETE FROM " + constants.TableInterceptRules + " WHERE " + constants.ColumnID + " = $1"

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
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("InterceptRule", id)
	}

	log.Info().
		Int64(constants.ColumnID, id).
		Msg("Interception rule deleted")

	return nil
}

// derefString returns the value of an optional string for log output
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
