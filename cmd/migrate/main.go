package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"docverify/internal/config"
	"docverify/internal/logging"
)

const (
	usage         = "Usage: migrate [up|down|steps N|force V|version]"
	defaultSource = "file://db/migrations"
)

// migrateLogger routes golang-migrate progress output through logrus.
type migrateLogger struct {
	entry *logrus.Entry
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.entry.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Logger().Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.Setup(cfg.Log).WithField("component", "migrate")

	source := os.Getenv("DOCVERIFY_MIGRATIONS")
	if source == "" {
		source = defaultSource
	}
	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance from %s: %w", source, err)
	}
	defer m.Close()
	m.Log = migrateLogger{entry: log}

	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := ignoreNoChange(m.Down()); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a number argument", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid %s argument: %w", args[0], err)
		}
		if args[0] == "force" {
			err = m.Force(n)
		} else {
			err = ignoreNoChange(m.Steps(n))
		}
		if err != nil {
			return fmt.Errorf("migration %s %d failed: %w", args[0], n, err)
		}
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		return nil
	default:
		fmt.Printf("unknown command: %s\n", args[0])
		fmt.Println(usage)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get version: %w", err)
	}
	log.WithField("dirty", dirty).Infof("schema at version %d", version)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
