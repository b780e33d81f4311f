package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/grantd/internal/cache"
	memcache "github.com/dropDatabas3/grantd/internal/cache/memory"
	rediscache "github.com/dropDatabas3/grantd/internal/cache/redis"
	"github.com/dropDatabas3/grantd/internal/config"
	"github.com/dropDatabas3/grantd/internal/domain/repository"
	healthctrl "github.com/dropDatabas3/grantd/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/grantd/internal/http/controllers/oauth"
	"github.com/dropDatabas3/grantd/internal/http/router"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/oauth"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
	"github.com/dropDatabas3/grantd/internal/store/codecache"
	"github.com/dropDatabas3/grantd/internal/store/memory"
	"github.com/dropDatabas3/grantd/internal/store/pg"
	"github.com/dropDatabas3/grantd/internal/validation"
	pgmigrations "github.com/dropDatabas3/grantd/migrations/postgres"
)

func main() {
	var (
		configPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:   "grantd",
		Short: "Servidor de autorización OAuth2",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env es opcional; el entorno del sistema siempre gana.
			_ = godotenv.Load(envFile)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Ruta al archivo de configuración YAML")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Archivo .env a cargar (opcional)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Borra tokens, códigos y PATs vencidos (solo postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(configPath)
		},
	}

	root.AddCommand(serveCmd)
	root.AddCommand(cleanupCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})
	defer func() { _ = logger.Sync() }()
	log := logger.With(logger.Component("grantd.serve"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ──
	var (
		clients repository.ClientRepository
		tokens  repository.TokenRepository
		pats    repository.PATRepository
		health  []healthctrl.Component
	)
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := pg.New(ctx, cfg.Storage.Postgres.DSN, pg.Config{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: cfg.PostgresConnMaxLifetime(),
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer store.Close()

		migrator := pg.NewMigrator(pgmigrations.FS, pgmigrations.Dir)
		result, err := migrator.Run(ctx, store)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied",
			logger.Count(len(result.Applied)),
			logger.Duration(result.Duration))

		clients, tokens, pats = store, store, store
		health = append(health, healthctrl.Component{Name: "postgres", Pinger: store})

	case "memory":
		store := memory.New()
		clients, tokens, pats = store, store, store
		log.Warn("using in-memory storage, data is lost on restart")

	default:
		return fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	// ── Authorization code cache ──
	var codeCache cache.Cache
	switch cfg.Cache.Kind {
	case "redis":
		rc := rediscache.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = rc.Close() }()
		codeCache = rc
		health = append(health, healthctrl.Component{Name: "redis", Pinger: rc})

	case "memory":
		codeCache = memcache.New(cfg.MemoryCacheTTL())

	default:
		return fmt.Errorf("unknown cache kind: %q", cfg.Cache.Kind)
	}
	codes := codecache.New(codeCache)

	// ── Engine ──
	accessTTL, _ := cfg.AccessTTL()
	refreshTTL, _ := cfg.RefreshTTL()
	codeTTL, _ := cfg.CodeTTL()

	srv, err := oauth.NewServer(oauth.Deps{
		Clients: clients,
		Tokens:  tokens,
		Codes:   codes,
		PATs:    pats,
		Catalog: validation.NewCatalog(cfg.OAuth.Scopes...),
		Config: oauth.Config{
			Issuer:     cfg.OAuth.Issuer,
			Secret:     []byte(cfg.OAuth.Secret),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
			CodeTTL:    codeTTL,
		},
	})
	if err != nil {
		return fmt.Errorf("building oauth server: %w", err)
	}

	if cfg.Metrics.Enabled {
		if err := metrics.RegisterOAuth(nil); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}

	handler := router.New(router.Deps{
		OAuth:   oauthctrl.NewControllers(srv),
		Health:  healthctrl.NewHealthController(health...),
		Metrics: cfg.Metrics.Enabled,
	})

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runCleanup(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("cleanup requires the postgres storage driver")
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})
	defer func() { _ = logger.Sync() }()
	log := logger.With(logger.Component("grantd.cleanup"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := pg.New(ctx, cfg.Storage.Postgres.DSN, pg.Config{})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer store.Close()

	n, err := store.DeleteExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("deleting expired tokens: %w", err)
	}
	log.Info("expired tokens deleted", logger.Count(int(n)))
	return nil
}
