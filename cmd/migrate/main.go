package main

import (
	"errors"
	"fmt"
	"os"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		configFile = pflag.StringP("config", "c", "", "config file")
		dir        = pflag.String("path", "migrations", "migrations directory")
		down       = pflag.Bool("down", false, "roll back one version instead of migrating up")
		force      = pflag.Int("force", -1, "force the schema version and clear the dirty flag")
	)
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("migrate")

	m, err := migrate.New("file://"+*dir, cfg.Database.URL())
	if err != nil {
		log.Fatal("open migrations", zap.Error(err))
	}
	defer m.Close()

	switch {
	case *force >= 0:
		err = m.Force(*force)
	case *down:
		err = m.Steps(-1)
	default:
		err = m.Up()
	}

	var dirty migrate.ErrDirty
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
	case errors.As(err, &dirty):
		log.Fatal("database is dirty, fix the schema and rerun with --force",
			zap.Int("version", dirty.Version), zap.Error(err))
	default:
		log.Fatal("migration failed", zap.Error(err))
	}

	version, isDirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Fatal("read schema version", zap.Error(verr))
	}
	log.Info("migration finished", zap.Uint("version", version), zap.Bool("dirty", isDirty))
}
