package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"clubledger/cmd"
	"clubledger/config"
	"clubledger/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	setupLogging()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(os.Args[2:]); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	// Check for admin subcommands
	if len(os.Args) > 1 {
		if command, ok := adminCommands[os.Args[1]]; ok {
			if err := runAdminCommand(command, os.Args[2:]); err != nil {
				log.Fatalf("%s error: %v", os.Args[1], err)
			}
			return
		}
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func setupLogging() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)

	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: clubledger migrate [up|down|status|force] [args...]")
	}

	// Fail early on a missing DATABASE_URL instead of inside migrate
	_ = config.Get()

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: clubledger migrate force <version>")
		}
		return database.MigrateForce(args[1])
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
