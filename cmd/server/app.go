package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/mmynk/speechtracker/internal/auth"
	"github.com/mmynk/speechtracker/internal/config"
	"github.com/mmynk/speechtracker/internal/metrics"
	"github.com/mmynk/speechtracker/internal/service"
	"github.com/mmynk/speechtracker/internal/sheets"
	"github.com/mmynk/speechtracker/internal/storage"
	"github.com/mmynk/speechtracker/internal/storage/redis"
	"github.com/mmynk/speechtracker/internal/storage/sqlite"
	"github.com/mmynk/speechtracker/pkg/logging"
)

// app holds everything the subcommands share.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *sqlite.SQLiteStore
	metrics *metrics.Metrics

	auth     *service.AuthService
	children *service.ChildService
	records  *service.RecordService
	sync     *service.SyncService

	closers []func() error
}

// newApp loads config and wires storage and services. With requireSheets,
// a missing or broken Sheets configuration is an error; otherwise the app
// runs without it.
func newApp(ctx context.Context, requireSheets bool) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store.Close)
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	sessionStore, err := a.sessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	source, err := a.sheetSource(ctx)
	if err != nil {
		if requireSheets {
			a.Close()
			return nil, err
		}
		logger.Warn("Google Sheets disabled", "reason", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret = randomSecret()
		logger.Warn("No session secret configured; sessions will not survive a restart")
	}
	tokens := auth.NewTokenManager(secret, cfg.Session.TTL)
	sessions := auth.NewSessionManager(sessionStore, tokens)

	a.auth = service.NewAuthService(auth.NewPasswordAuthenticator(store), sessions, store, logger)
	a.children = service.NewChildService(store, store, logger)
	a.records = service.NewRecordService(a.children, store, logger)
	a.sync = service.NewSyncService(source, store, store, a.metrics, logger)
	return a, nil
}

func (a *app) sessionStore(ctx context.Context) (storage.SessionStore, error) {
	if a.cfg.Session.Backend != "redis" {
		return a.store, nil
	}

	rs, err := redis.NewSessionStore(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rs.Close)
	a.logger.Info("Using redis session store", "addr", a.cfg.Redis.Addr)
	return rs, nil
}

// sheetSource returns a nil interface, not a nil *sheets.Client, when
// Sheets is unavailable.
func (a *app) sheetSource(ctx context.Context) (service.SheetSource, error) {
	if !a.cfg.SheetsEnabled() {
		return nil, sheets.ErrNotConfigured
	}
	client, err := sheets.NewClient(ctx, a.cfg.Sheets.SpreadsheetID, a.cfg.Sheets.CredentialsFile, a.cfg.Sheets.ApplicationName)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Close failed", "error", err)
		}
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
