package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	appconfig "github.com/mohammad-safakhou/webqa/config"
	"github.com/mohammad-safakhou/webqa/internal/index"
	"github.com/mohammad-safakhou/webqa/internal/indexer"
	"github.com/mohammad-safakhou/webqa/internal/metrics"
	"github.com/mohammad-safakhou/webqa/internal/qa"
	"github.com/mohammad-safakhou/webqa/models"
	"github.com/mohammad-safakhou/webqa/provider"
	"github.com/mohammad-safakhou/webqa/session"
	"github.com/mohammad-safakhou/webqa/session/inmemory"
	redis_session "github.com/mohammad-safakhou/webqa/session/redis"
	"github.com/mohammad-safakhou/webqa/web"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options carries everything New needs; Run builds it from configuration.
type Options struct {
	Handler     *QAHandler
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	CORSOrigins []string
}

// New builds the echo instance with middleware and every route.
func New(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	// Unified HTTP error handler so framework errors share the status/message shape.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Warn("http error",
			zap.Int("code", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote", c.RealIP()),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, models.Error(msg))
		}
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	registerDocs(e)
	registerUI(e)

	if opts.Handler.Logger == nil {
		opts.Handler.Logger = logger
	}
	opts.Handler.Register(e)
	return e
}

func registerUI(e *echo.Echo) {
	ui := echo.WrapHandler(web.Handler())
	e.GET("/", ui)
	e.GET("/chat", ui)
	e.GET("/static/*", ui)
}

// Run wires stores, the model and the indexer from cfg and serves until
// ctx is cancelled, then shuts down and releases every dependency.
func Run(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) error {
	var m *metrics.Metrics
	if cfg.Telemetry.MetricsEnabled {
		m = metrics.New()
	}

	store, err := index.NewStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open index store: %w", err)
	}
	defer closeQuietly(logger, "index store", store.Close)

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer closeQuietly(logger, "session store", sessions.Close)

	// The model is loaded once here and shared by every request.
	model, err := provider.NewModel(cfg.QA)
	if err != nil {
		return fmt.Errorf("init QA model: %w", err)
	}
	defer closeQuietly(logger, "qa model", model.Close)

	ix, err := indexer.New(cfg.Indexer, store, logger.Named("indexer"))
	if err != nil {
		return fmt.Errorf("init indexer: %w", err)
	}
	responder := &qa.Responder{
		Index:         store,
		Sessions:      sessions,
		Model:         model,
		ContextWindow: cfg.Session.ContextWindow,
	}
	if m != nil {
		ix.ObserveFetch = m.ObserveFetch
		responder.ObserveModel = m.ObserveModel
	}

	e := New(Options{
		Handler:     &QAHandler{Indexer: ix, Responder: responder, Sessions: sessions, Metrics: m, Logger: logger.Named("http")},
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Address),
			zap.String("index_backend", cfg.Storage.Index.Backend),
			zap.String("session_backend", cfg.Session.Backend),
			zap.String("qa_provider", cfg.QA.Provider),
			zap.String("qa_model", cfg.QA.Model),
		)
		errCh <- e.Start(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func newSessionStore(ctx context.Context, cfg *appconfig.Config) (session.Store, error) {
	switch session.StoreType(cfg.Session.Backend) {
	case session.InMemoryStore:
		return inmemory.NewInMemorySessionStore(cfg.Session.MaxHistory), nil
	case session.RedisStore:
		r := cfg.Storage.Redis
		rdb := redis.NewClient(&redis.Options{Addr: r.Addr(), Password: r.Password, DB: r.DB, DialTimeout: r.Timeout})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis connection failed (%s): %w", r.Addr(), err)
		}
		return redis_session.NewRedisSessionStore(rdb, cfg.Session.TTL, cfg.Session.MaxHistory), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", cfg.Session.Backend)
	}
}

func closeQuietly(logger *zap.Logger, what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("close failed", zap.String("component", what), zap.Error(err))
	}
}
