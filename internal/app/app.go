// Package app assembles the dashboard's dependencies from a Config.
package app

import (
	"database/sql"
	"smartdash/internal/chat"
	"smartdash/internal/config"
	"smartdash/internal/db"
	"smartdash/internal/resolver"
	"smartdash/internal/settings"
	"smartdash/internal/translate"

	"go.uber.org/zap"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *sql.DB
	DBErr      error
	Settings   *settings.Store
	Translator *translate.Client
	Resolver   *resolver.Resolver
}

// Build wires everything. A database that fails to open is recorded in DBErr
// rather than returned; settings then fall back to defaults and are not saved.
func Build(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}

	a.DB, a.DBErr = db.OpenDashboardDB(cfg.DataDir)
	if a.DBErr != nil {
		logger.Warn("database unavailable", zap.String("dir", cfg.DataDir), zap.Error(a.DBErr))
		a.DB = nil
	}
	a.Settings = settings.NewStore(a.DB, logger.Named("settings"))

	tr, err := translate.New(translate.Options{
		Endpoint:  cfg.Translate.Endpoint,
		LangPair:  cfg.Translate.LangPair,
		Timeout:   cfg.Translate.Timeout,
		CacheSize: cfg.Translate.CacheSize,
		Logger:    logger.Named("translate"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Translator = tr

	a.Resolver = resolver.New(tr,
		resolver.WithDelay(resolver.Sleep, cfg.SimulatedDelay),
		resolver.WithLogger(logger.Named("resolver")),
	)
	return a, nil
}

func (a *App) NewSession() *chat.Session {
	return chat.NewSession(a.Resolver, chat.WithLogger(a.Logger.Named("chat")))
}

func (a *App) Close() {
	if a.Translator != nil {
		a.Translator.CloseIdleConnections()
	}
	if a.DB != nil {
		_ = a.DB.Close()
		a.DB = nil
	}
	_ = a.Logger.Sync()
}
