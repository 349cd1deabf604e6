// Package main is the entry point for the rulesync API server, which keeps
// WeChat Work sensitive word interception rules in sync between a local
// database and the remote WeChat Work API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/config"
	"github.com/wecomkit/rulesync/internal/server"
	"github.com/wecomkit/rulesync/internal/utils"
)

// Version information is set during build time through linker flags.
// These variables provide runtime access to build metadata.
var (
	// version represents the release version of the application.
	version = "dev"

	// commit is the git commit hash from which the application was built.
	commit = "none"

	// buildDate is the timestamp when the application was built.
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
// This function executes before main() and sets up initial environment.
func init() {
	// Load .env file if it exists. Not finding a .env file is a non-fatal
	// condition, as configuration might be provided by other means.
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

// main is the entry point for the application. It initializes configuration,
// sets up logging, creates and starts the server, and handles graceful shutdown.
func main() {
	// Define command-line flags for configuration path and version display
	var (
		configPath  string
		showVersion bool
	)

	// Register command-line flags
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	// If version flag is set, display build information and exit
	if showVersion {
		fmt.Printf("rulesync API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Initialize zerolog with console output format and Unix timestamp format
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load application configuration from the specified path
	// This includes database settings, WeChat API credentials, and sync options
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override version from build if available (not in dev mode)
	if version != "dev" {
		cfg.App.Version = version
	}

	// Initialize logger with configuration settings
	// This sets log level, output format, and other logging parameters
	utils.InitLogger(cfg)

	// Log startup information for operational visibility
	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting rulesync API Server")

	// Initialize validator for request payload validation
	utils.InitValidator()

	// Create server instance with loaded configuration
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start the server and handle any errors
	// This is a blocking call that runs until termination
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
