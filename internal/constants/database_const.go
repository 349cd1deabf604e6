// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names, column names, and driver error codes. These constants
// ensure consistent database access patterns throughout the application and
// simplify schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableCorps is the name of the table storing WeChat Work corp accounts.
	TableCorps = "wechat_corps"

	// TableAgents is the name of the table storing API agent credentials.
	TableAgents = "wechat_agents"

	// TableInterceptRules is the name of the table storing sensitive word interception rules.
	TableInterceptRules = "intercept_rules"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnID is the generic primary key column name.
	ColumnID = "id"

	// ColumnCorpID is the column name for corp identifier references.
	ColumnCorpID = "corp_id"

	// ColumnAgentID is the column name for agent identifier references.
	ColumnAgentID = "agent_id"

	// ColumnRuleID is the column name for the remote rule identifier.
	ColumnRuleID = "rule_id"

	// ColumnName is the column name for display names.
	ColumnName = "name"

	// ColumnWordList is the column name for the JSON-encoded sensitive word list.
	ColumnWordList = "word_list"

	// ColumnSemanticsList is the column name for the JSON-encoded semantics code list.
	ColumnSemanticsList = "semantics_list"

	// ColumnInterceptType is the column name for the intercept type code.
	ColumnInterceptType = "intercept_type"

	// ColumnApplicableUserList is the column name for the JSON-encoded applicable user list.
	ColumnApplicableUserList = "applicable_user_list"

	// ColumnApplicableDepartmentList is the column name for the JSON-encoded applicable department list.
	ColumnApplicableDepartmentList = "applicable_department_list"

	// ColumnSync is the column name for the tri-state sync flag.
	ColumnSync = "sync"

	// ColumnSecret is the column name for agent API secrets.
	ColumnSecret = "secret"

	// ColumnAgentNumber is the column name for the numeric WeChat agent id.
	ColumnAgentNumber = "agent_number"

	// ColumnCreatedAt is the column name for creation timestamps.
	ColumnCreatedAt = "created_at"

	// ColumnUpdatedAt is the column name for update timestamps.
	ColumnUpdatedAt = "updated_at"
)

// Database Error Codes define driver-specific error identifiers.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyViolation is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyViolation = "23503"

	// MySQLErrorDuplicateEntry is the MySQL error number for duplicate entry violations.
	MySQLErrorDuplicateEntry = 1062
)

// Field Limits define persisted column length constraints.
const (
	// MaxRuleNameLength is the maximum length of a rule display name in UTF-8 characters.
	MaxRuleNameLength = 20

	// MaxRemoteRuleIDLength is the maximum length of a remote rule identifier.
	MaxRemoteRuleIDLength = 60
)
