package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"example.com/br-admin/internal/config"
	"example.com/br-admin/internal/defs"
	"example.com/br-admin/internal/game"
	"example.com/br-admin/internal/gameconfig"
	"example.com/br-admin/internal/httpapi"
	"example.com/br-admin/internal/ingest"
	"example.com/br-admin/internal/inventory"
	"example.com/br-admin/internal/leaderboard"
	"example.com/br-admin/internal/metrics"
	"example.com/br-admin/internal/store"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	srv *http.Server
}

// defaultModes seeds the mode table on first start, before any config
// document exists.
var defaultModes = []game.ModeSlot{
	{MapName: "main", TeamMode: game.TeamModeSolo, Enabled: true},
	{MapName: "main", TeamMode: game.TeamModeDuo, Enabled: true},
	{MapName: "main", TeamMode: game.TeamModeSquad, Enabled: true},
	{MapName: "desert", TeamMode: game.TeamModeSquad, Enabled: false},
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	// Quick connectivity checks (fail fast).
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	met := metrics.New(reg)

	// --- Live config ---
	modeTable := gameconfig.NewFileModeTable(cfg.Game.ConfigPath)
	configStore, err := gameconfig.Load(ctx, defs.MapCatalog{}, modeTable, defaultModes)
	if err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("game config: %w", err)
	}

	// --- Stores ---
	users := store.NewUserStore(dbpool)
	items := store.NewItemStore(dbpool)
	matches := store.NewMatchStore(dbpool)
	ipLogs := store.NewIPLogStore(dbpool)

	// --- Services ---
	cache := leaderboard.NewRedisCache(rdb)
	invalidator := leaderboard.NewCoordinator(cache, log, met)
	cacheAdmin := leaderboard.NewAdmin(cache)
	ingestSvc := ingest.NewService(matches, invalidator, ipLogs, log, met)
	inventorySvc := inventory.NewService(defs.ItemCatalog{}, users, items, met)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	private := &httpapi.PrivateHandler{
		Config:     configStore,
		Ingest:     ingestSvc,
		Inventory:  inventorySvc,
		CacheAdmin: cacheAdmin,
		Log:        log,
		Met:        met,
	}
	private.RegisterRoutes(mux, []byte(cfg.Auth.Secret))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, srv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("admin api starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("admin api shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	// best-effort
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
