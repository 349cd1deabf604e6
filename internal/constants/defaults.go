// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings and establish boundaries for resource usage.
package constants

import "time"

// Default Pagination Values define the parameters used for paginated responses.
// These constants ensure consistent and reasonable pagination behavior.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 20

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultDBDriver is the database driver used when none is configured.
	DefaultDBDriver = "postgres"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"
)

// Default Server Timeouts define how long the HTTP server waits on slow peers.
const (
	// DefaultReadTimeout is the default timeout for reading a full request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the default timeout for writing a full response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultShutdownTimeout is how long graceful shutdown waits for in-flight requests.
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultIdleTimeout is the default timeout for idle keep-alive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// Default Sync Settings control the periodic pull reconciliation job.
const (
	// DefaultSyncInterval is the cadence of the scheduled remote pull.
	DefaultSyncInterval = 10 * time.Minute

	// DefaultSyncTimezone is the timezone used when converting remote epoch
	// timestamps. The vendor reports creation times as Unix epochs; conversion
	// uses an explicit location rather than the process default.
	DefaultSyncTimezone = "UTC"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits define the maximum allowed sizes for incoming payloads.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default API Key Hash Settings define the parameters for Argon2id hashing of
// admin API keys. These balance security and verification latency.
const (
	// DefaultAPIKeyHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultAPIKeyHashMemory = 64 * 1024

	// DefaultAPIKeyHashIterations is the number of iterations for Argon2id hashing.
	DefaultAPIKeyHashIterations = 3

	// DefaultAPIKeyHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultAPIKeyHashParallelism = 2

	// DefaultAPIKeyHashSaltLength is the length in bytes of the random salt.
	DefaultAPIKeyHashSaltLength = 16

	// DefaultAPIKeyHashKeyLength is the length in bytes of the derived key.
	DefaultAPIKeyHashKeyLength = 32
)

// Log Redaction defines placeholder values for masked configuration output.
const (
	// LogRedactedValue replaces sensitive values in configuration log lines.
	LogRedactedValue = "[REDACTED]"
)
