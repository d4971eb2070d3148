// Command migrate applies the invoice_income schema with golang-migrate.
// Usage: go run ./cmd/migrate [-source file://db/migrations] up|down|steps N|version|force V
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/logger"
)

const usage = "usage: migrate [-source URL] up|down|steps N|version|force V"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	source := flag.String("source", "", "migrations source URL (defaults to db.migrations_path)")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	src := *source
	if src == "" {
		src = cfg.DB.MigrationsPath
	}
	m, err := migrate.New(src, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	ml := zl.With(zap.String("source", src), zap.String("db", cfg.DB.Name))

	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("migration up: %w", err)
		}
		ml.Info("migrations applied")

	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return fmt.Errorf("migration down: %w", err)
		}
		ml.Info("migrations reverted")

	case "steps":
		n, err := intArg(args, "steps")
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return fmt.Errorf("migration steps: %w", err)
		}
		ml.Info("migration steps applied", zap.Int("steps", n))

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			ml.Info("no migration applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading version: %w", err)
		}
		ml.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "force":
		v, err := intArg(args, "force")
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("forcing version %d: %w", v, err)
		}
		ml.Warn("schema version forced", zap.Int("version", v))

	default:
		return fmt.Errorf("unknown command %q (%s)", args[0], usage)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func intArg(args []string, cmd string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s argument %q: %w", cmd, args[1], err)
	}
	return n, nil
}
