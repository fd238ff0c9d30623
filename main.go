package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"sqlworkshop-server/catalog"
	"sqlworkshop-server/config"
	"sqlworkshop-server/handlers"
	"sqlworkshop-server/logger"
	"sqlworkshop-server/middleware"
	"sqlworkshop-server/sessions"
	"sqlworkshop-server/templates"
	"sqlworkshop-server/tracing"
	"sqlworkshop-server/workshop"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Error loading configuration: " + err.Error())
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("Error creating logger: " + err.Error())
	}
	defer log.Sync()

	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		log.Fatal("Error loading workshop catalog", "dir", cfg.CatalogDir, "error", err)
	}
	log.Info("Workshop catalog loaded", "title", cat.Title, "guided", len(cat.Guided), "challenges", len(cat.Challenges))
	ws := workshop.New(cat, cfg.ConnectionDefaults())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Environment: cfg.GinMode,
	})
	if err != nil {
		log.Fatal("Error initializing tracing", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Error flushing traces", "error", err)
		}
	}()

	store, closeStore := newStore(ctx, cfg, log)
	defer closeStore()
	manager := sessions.NewManager(store, ws)

	// Expire idle in-process sessions. Redis expires keys on its own.
	if mem, ok := store.(*sessions.MemoryStore); ok {
		go func() {
			ticker := time.NewTicker(cfg.Session.SweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if n := mem.Sweep(now); n > 0 {
						log.Info("Expired idle sessions", "count", n)
					}
				}
			}
		}()
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(tracing.ServiceName))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	renderer, err := templates.NewRenderer()
	if err != nil {
		log.Fatal("Error loading templates", "error", err)
	}
	router.HTMLRender = renderer

	handlers.RegisterRoutes(router, &handlers.Env{
		Sessions: manager,
		Workshop: ws,
		Log:      log,
		Cookie: middleware.SessionOptions{
			SigningKey: cfg.Session.SigningKey,
			Issuer:     cfg.Session.Issuer,
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.GinMode == gin.ReleaseMode,
		},
	})

	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", "error", err)
		}
	}()

	log.Info("SQL workshop server starting", "addr", cfg.ServerPort, "session_store", cfg.Session.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server startup error", "error", err)
	}
	log.Info("Server exited gracefully.")
}

func newStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (sessions.Store, func()) {
	if cfg.Session.Store != config.StoreRedis {
		return sessions.NewMemoryStore(cfg.Session.TTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := sessions.NewRedisStore(client, cfg.Redis.Prefix, cfg.Session.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Fatal("Unable to connect to redis", "addr", cfg.Redis.Addr, "error", err)
	}
	log.Info("Using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)

	return store, func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing redis client", "error", err)
		}
	}
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Load()
	}
	return catalog.LoadDir(dir)
}
