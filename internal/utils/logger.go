// Package utils provides utility functions and helpers for the application.
// This file configures the global zerolog logger and provides structured
// logging helpers for HTTP requests, database queries, and sync runs.
package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/config"
	"github.com/wecomkit/rulesync/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	// Set global log level
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		// Default to info level if invalid
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure logger output format
	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    false, // Enable colors for development
		}
	}

	// Set global logger
	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()

	log.Info().Msg("Logger initialized")
}

// LogHTTPRequest logs details about a completed HTTP request.
func LogHTTPRequest(requestID, method, path, remoteAddr string, statusCode int, latency time.Duration) {
	event := log.Info()
	if statusCode >= 500 {
		event = log.Error()
	} else if statusCode >= 400 {
		event = log.Warn()
	}

	event.
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP request")
}

// LogDBQuery logs a database query with execution time and error status.
// Arguments bound to secret-bearing queries are masked.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			if strings.Contains(strings.ToLower(query), constants.ColumnSecret) ||
				strings.Contains(strings.ToLower(query), "token") {
				safeArgs[i] = constants.LogRedactedValue
			} else {
				safeArgs[i] = s
			}
		} else {
			safeArgs[i] = arg
		}
	}

	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// SyncLogger returns a logger bound to one sync run for consistent correlation
// of all log lines the run produces.
func SyncLogger(runID string) zerolog.Logger {
	return log.With().
		Str("component", "sync").
		Str("run_id", runID).
		Logger()
}

// GetLogLevel returns the current global log level as a string.
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel changes the global log level at runtime.
func SetLogLevel(level string) error {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}
