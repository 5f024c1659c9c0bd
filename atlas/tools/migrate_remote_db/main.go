package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"newscorr/src/config"
	"newscorr/src/database"
)

// Applies the atlas migrations to the database named by the newscorr config.
func main() {
	dir := flag.String("dir", "file://atlas/migrations", "atlas migration directory URL")
	dryRun := flag.Bool("dry-run", false, "print pending statements without applying them")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appConfig, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if !appConfig.DatabaseConfig.Enabled {
		slog.Error("postgres.enabled is false, nothing to migrate")
		os.Exit(1)
	}

	uri := database.MakeConnectionString(&appConfig.DatabaseConfig)
	args := []string{"migrate", "apply", "--url", uri, "--dir", *dir}
	if *dryRun {
		args = append(args, "--dry-run")
	}

	slog.Info("Applying migrations", "host", appConfig.DatabaseConfig.Host, "database", appConfig.DatabaseConfig.Database, "dir", *dir, "dry_run", *dryRun)
	output, err := exec.CommandContext(ctx, "atlas", args...).CombinedOutput()
	os.Stdout.Write(output) //nolint:errcheck
	if err != nil {
		slog.Error("Atlas migration failed", "error", err)
		os.Exit(1)
	}
}
