package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/adapter/llm"
	"github.com/heartmarshall/vibevocab/internal/auth"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
	"github.com/heartmarshall/vibevocab/internal/service/scan"
	"github.com/heartmarshall/vibevocab/internal/service/session"
	"github.com/heartmarshall/vibevocab/internal/service/study"
	"github.com/heartmarshall/vibevocab/internal/transport/mcp"
	"github.com/heartmarshall/vibevocab/internal/transport/middleware"
	"github.com/heartmarshall/vibevocab/internal/transport/rest"
)

// App is the wired service graph shared by the HTTP server, the MCP server and the CLI.
type App struct {
	Config *config.Config
	Log    *slog.Logger

	LLM      *llm.Client
	Lookup   *lookup.Service
	Session  *session.Service
	Notebook *notebook.Service
	Importer *importer.Service
	Scan     *scan.Service
	Study    *study.Service

	storage *storage
}

// New connects storage and builds every service. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := llm.New(cfg.LLM, logger)
	if !client.Configured() {
		logger.Warn("llm api key not set; lookups will return fallback cards")
	}

	// A nil repo must stay an untyped nil so the notebook service runs memory-only.
	var repo notebookRepo
	if st.repo != nil {
		repo = st.repo
	}

	lookupSvc := lookup.NewService(logger, client, cfg.Lookup)
	notebookSvc := notebook.NewService(logger, repo, cfg.Notebook, cfg.Session)
	jwtManager := auth.NewJWTManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TokenTTL)

	return &App{
		Config:   cfg,
		Log:      logger,
		LLM:      client,
		Lookup:   lookupSvc,
		Session:  session.NewService(logger, jwtManager, cfg.Lookup),
		Notebook: notebookSvc,
		Importer: importer.NewService(logger, lookupSvc, notebookSvc, cfg.Import, cfg.Lookup),
		Scan:     scan.NewService(logger, client, cfg.Import),
		Study:    study.NewService(logger, client, notebookSvc, cfg.Lookup),
		storage:  st,
	}, nil
}

// Close releases the storage connection.
func (a *App) Close() {
	a.storage.close()
}

// Handler builds the HTTP API. limiter may be nil to disable rate limiting.
func (a *App) Handler(limiter *middleware.RateLimiter) http.Handler {
	var pinger interface {
		Ping(ctx context.Context) error
	}
	if a.storage.repo != nil {
		pinger = a.storage.repo
	}

	return rest.NewRouter(rest.Deps{
		Logger:      a.Log,
		CORS:        a.Config.CORS,
		RateLimit:   a.Config.RateLimit,
		RateLimiter: limiter,
		Tokens:      a.Session,
		Health:      rest.NewHealthHandler(pinger, a.storage.driver, a.LLM.Configured(), BuildVersion()),
		Session:     rest.NewSessionHandler(a.Session, a.Log),
		Lookup:      rest.NewLookupHandler(a.Lookup, a.Log),
		Notebook:    rest.NewNotebookHandler(a.Notebook, a.Lookup, a.Log),
		Import:      rest.NewImportHandler(a.Importer, a.Notebook, a.Scan, a.Log),
		Study:       rest.NewStudyHandler(a.Study, a.Log),
	})
}

// Run is the HTTP server entry point. It loads configuration, wires the
// services, serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return Serve(ctx, cfg, NewLogger(cfg.Log))
}

// Serve runs the HTTP server for an already loaded configuration.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Notebook.Storage),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	go a.Notebook.Registry().RunSweeper(ctx, cfg.Session.SweepInterval)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler(limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	// ctx is already cancelled; give in-flight requests their own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// ServeMCP runs the MCP server over in/out, bound to the configured session notebook.
// Without a configured session ID the notebook only lives for this run.
func (a *App) ServeMCP(ctx context.Context, in io.Reader, out io.Writer) error {
	sessionID := uuid.New()
	if a.Config.MCP.SessionID != "" {
		sessionID = uuid.MustParse(a.Config.MCP.SessionID)
	}

	a.Log.Info("mcp server starting",
		slog.String("session_id", sessionID.String()),
		slog.String("language", a.Config.MCP.Language),
	)

	s := mcp.NewServer(mcp.Deps{
		Logger:    a.Log,
		Lookup:    a.Lookup,
		Notebook:  a.Notebook,
		Importer:  a.Importer,
		SessionID: sessionID,
		Language:  a.Config.MCP.Language,
		Version:   Version,
	})
	return mcp.Serve(ctx, s, in, out)
}
