package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"dayflow/config"
	"dayflow/internal/infra/persistence/migrations"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	pgLib "github.com/slighter12/go-lib/database/postgres"
)

// Supported subcommands:
// - up:      apply all pending migrations
// - down:    roll back the latest migration
// - status:  list migrations and whether they are applied
// - version: print the current schema version

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if cfg.Postgres == nil {
		return errors.New("postgres configuration is required to run migrations")
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	defer sqlDB.Close()

	provider, err := migrations.NewProvider(sqlDB, goose.DialectPostgres)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return errors.Wrap(err, "migrate up")
		}
		for _, result := range results {
			fmt.Printf("applied %d (%s)\n", result.Source.Version, result.Duration)
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return errors.Wrap(err, "migrate down")
		}
		fmt.Printf("rolled back %d (%s)\n", result.Source.Version, result.Duration)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return errors.Wrap(err, "migrate status")
		}
		for _, status := range statuses {
			fmt.Printf("%-6d %-8s %s\n", status.Source.Version, status.State, status.Source.Path)
		}
	case "version":
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return errors.Wrap(err, "migrate version")
		}
		fmt.Println(version)
	default:
		return errors.Errorf("unknown command %q", command)
	}

	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate <command>")
	fmt.Fprintln(os.Stderr, "Commands: "+strings.Join([]string{"up", "down", "status", "version"}, ", "))
}
