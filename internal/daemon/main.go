// Package daemon assembles storage, database and web service into one process.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	storagemysql "github.com/gofiber/storage/mysql"
	storagepostgres "github.com/gofiber/storage/postgres"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/dsn"
	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/intent"
	"github.com/scholarden/scholarden-admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Account{},
		&models.Document{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	intents, err := intent.NewStore(openIntentStorage(cfg), cfg.Intent.TTL)
	if err != nil {
		panic("failed to create intent store")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, intents),
	}
}

// openDialector picks the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.DB.GormEngine == "postgres" {
		return gormpostgres.Open(dsn.Create(cfg))
	}

	return gormmysql.Open(dsn.Create(cfg))
}

// openIntentStorage backs the intent store with the same database the
// accounts live in. Both engines evict expired entries natively, which is
// what gives captured intents their hard lifetime.
func openIntentStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == "postgres" {
		return storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "onboarding_intents",
		})
	}

	return storagemysql.New(storagemysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "onboarding_intents",
	})
}
