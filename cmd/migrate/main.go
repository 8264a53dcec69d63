package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"taxdecl/internal/config"
	"taxdecl/internal/logging"
)

const usage = "Usage: migrate [--dir PATH] [up|down|steps N|force V|version]"

func main() {
	dir := pflag.String("dir", "db/migrations", "migrations directory")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	logger := logging.New(cfg.Log).WithField("component", "migrate")

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := migrate.New("file://"+*dir, cfg.DB.DSN())
	if err != nil {
		logger.WithError(err).Fatal("failed to create migrate instance")
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.WithError(err).Fatal("migration up failed")
		}
		logger.Info("migrations applied")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.WithError(err).Fatal("migration down failed")
		}
		logger.Info("migrations reverted")

	case "steps":
		n := intArg(logger, args, "steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.WithError(err).Fatal("migration steps failed")
		}
		logger.WithField("steps", n).Info("migration steps applied")

	case "force":
		v := intArg(logger, args, "force")
		if err := m.Force(v); err != nil {
			logger.WithError(err).Fatal("force version failed")
		}
		logger.WithField("version", v).Info("version forced")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.WithError(err).Fatal("failed to get version")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", args[0])
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(logger logrus.FieldLogger, args []string, cmd string) int {
	if len(args) < 2 {
		logger.Fatalf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		logger.WithError(err).Fatalf("invalid %s argument", cmd)
	}
	return n
}
