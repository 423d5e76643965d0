package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"

	insightinadapter "bjjflow/internal/modules/insight/adapter/in"
	insightoutadapter "bjjflow/internal/modules/insight/adapter/out"
	insightout "bjjflow/internal/modules/insight/port/out"
	insightservice "bjjflow/internal/modules/insight/service"
	insightusecase "bjjflow/internal/modules/insight/usecase"
	journalinadapter "bjjflow/internal/modules/journal/adapter/in"
	journaloutadapter "bjjflow/internal/modules/journal/adapter/out"
	journaldomain "bjjflow/internal/modules/journal/domain"
	journalservice "bjjflow/internal/modules/journal/service"
	journalusecase "bjjflow/internal/modules/journal/usecase"
	"bjjflow/internal/platform/clock"
	"bjjflow/internal/platform/config"
	"bjjflow/internal/platform/id"
	"bjjflow/internal/platform/kv"
	"bjjflow/internal/platform/logging"
	uiapp "bjjflow/internal/ui/app"
)

type App struct {
	Config      config.Config
	Logger      *slog.Logger
	Profile     string
	JournalCLI  journalinadapter.CLIHandler
	JournalHTTP journalinadapter.HTTPHandler
	InsightCLI  insightinadapter.CLIHandler
	InsightHTTP insightinadapter.HTTPHandler

	closers []io.Closer
}

// New wires the application over cfg. The caller owns the returned App and
// must Close it.
func New(cfg config.Config) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.OpenFile(cfg.LogPath, level)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logFile}}

	store, err := kv.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.closers = append(app.closers, store)

	clk := clock.SystemClock{}
	repo := journaloutadapter.NewKVSessionRepository(store, cfg.Storage.Key, cfg.Storage.LegacyKeys, clk, logger)
	journalSvc := journalservice.NewJournalService(clk, id.UUID{}, repo, logger)
	journalUC := journalusecase.NewInteractor(journalSvc, journaloutadapter.NewVaultExporter())

	var generator insightout.Generator
	if strings.TrimSpace(cfg.Insight.APIKey) != "" {
		generator = insightoutadapter.NewOpenAIGenerator(insightoutadapter.OpenAIConfig{
			BaseURL: cfg.Insight.BaseURL,
			APIKey:  cfg.Insight.APIKey,
			Model:   cfg.Insight.Model,
		})
	} else {
		logger.Warn("insight api key not configured; sensei requests will fail")
	}
	insightSvc := insightservice.NewInsightService(
		insightoutadapter.NewJournalSourceAdapter(journalUC),
		generator,
		insightoutadapter.NewTiktokenCounter(insightoutadapter.DefaultEncoding),
		insightservice.Options{
			Language:        cfg.Insight.Language,
			Timeout:         cfg.Insight.Timeout,
			MaxPromptTokens: cfg.Insight.MaxPromptTokens,
		},
		logger,
	)
	insightUC := insightusecase.NewInteractor(insightSvc)

	app.Profile = journaldomain.NewProfile(cfg.Profile.Name, cfg.Profile.Belt, cfg.Profile.Stripes, cfg.Profile.Academy).Label()
	app.JournalCLI = journalinadapter.NewCLIHandler(journalUC)
	app.JournalHTTP = journalinadapter.NewHTTPHandler(journalUC)
	app.InsightCLI = insightinadapter.NewCLIHandler(insightUC)
	app.InsightHTTP = insightinadapter.NewHTTPHandler(insightUC)
	return app, nil
}

// Close releases the store and the log file, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.JournalCLI, app.InsightCLI, app.Profile, time.Now)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// NewRouter mounts the timeline page and the JSON API.
func NewRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(app.Logger))
	app.JournalHTTP.Register(router)
	app.InsightHTTP.Register(router)
	return router
}

// RunServer serves until ctx is cancelled, then drains in-flight requests.
func RunServer(ctx context.Context, app *App, addr string) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
