package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	sessioninadapter "brack/internal/modules/session/adapter/in"
	sessionoutadapter "brack/internal/modules/session/adapter/out"
	sessionout "brack/internal/modules/session/port/out"
	sessionservice "brack/internal/modules/session/service"
	sessionusecase "brack/internal/modules/session/usecase"
	streakinadapter "brack/internal/modules/streak/adapter/in"
	streakoutadapter "brack/internal/modules/streak/adapter/out"
	streakout "brack/internal/modules/streak/port/out"
	streakservice "brack/internal/modules/streak/service"
	streakusecase "brack/internal/modules/streak/usecase"
	"brack/internal/platform/clock"
	"brack/internal/platform/config"
	"brack/internal/platform/database"
	"brack/internal/platform/httpx"
	"brack/internal/platform/id"
	"brack/internal/platform/tx"
	uiapp "brack/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     *zap.Logger
	SessionCLI sessioninadapter.CLIHandler
	StreakCLI  streakinadapter.CLIHandler

	sessionHTTP sessioninadapter.HTTPHandler
	streakHTTP  streakinadapter.HTTPHandler
	closers     []func() error
}

type stores struct {
	sessions sessionout.SessionStore
	profiles streakout.ProfileStore
	history  streakout.HistoryStore
	tx       tx.Manager
	closers  []func() error
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk, err := clock.ForZone(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("configure clock: %w", err)
	}
	ids := id.UUID{}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("stores opened", zap.String("driver", cfg.Store.Driver))

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, st.sessions, logger.Named("session")),
		sessionoutadapter.NewFileActiveSessionStore(cfg.ActiveSessionPath()),
		sessionoutadapter.NewVaultNoteSource(),
	)
	streakUC := streakusecase.NewInteractor(
		streakservice.NewStreakService(clk, ids, st.tx, st.profiles, st.history, logger.Named("streak")),
		streakoutadapter.NewSessionSourceAdapter(sessionUC),
		streakoutadapter.NewVaultReportWriter(),
		cfg.CalendarDays,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		StreakCLI:   streakinadapter.NewCLIHandler(streakUC),
		sessionHTTP: sessioninadapter.NewHTTPHandler(sessionUC, logger.Named("http")),
		streakHTTP:  streakinadapter.NewHTTPHandler(streakUC, logger.Named("http")),
		closers:     st.closers,
	}, nil
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.Store.DSN)
		if err != nil {
			return stores{}, err
		}
		return postgresStores(ctx, pool)
	default:
		db, err := database.OpenSQLite(cfg.SQLitePath())
		if err != nil {
			return stores{}, err
		}
		return sqliteStores(ctx, db)
	}
}

func sqliteStores(ctx context.Context, db *sql.DB) (stores, error) {
	sessions, err := sessionoutadapter.NewSQLiteSessionStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("new session store: %w", err)
	}
	streaks, err := streakoutadapter.NewSQLiteStreakStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("new streak store: %w", err)
	}
	return stores{
		sessions: sessions,
		profiles: streaks,
		history:  streaks,
		tx:       tx.NewSQLManager(db),
		closers:  []func() error{db.Close},
	}, nil
}

func postgresStores(ctx context.Context, pool *pgxpool.Pool) (stores, error) {
	sessions, err := sessionoutadapter.NewPostgresSessionStore(ctx, pool)
	if err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("new session store: %w", err)
	}
	streaks, err := streakoutadapter.NewPostgresStreakStore(ctx, pool)
	if err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("new streak store: %w", err)
	}
	return stores{
		sessions: sessions,
		profiles: streaks,
		history:  streaks,
		tx:       tx.NewPgxManager(pool),
		closers:  []func() error{func() error { pool.Close(); return nil }},
	}, nil
}

// Close releases the database handles.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	_ = a.Logger.Sync()
	return err
}

// Router builds the /v1 HTTP API.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.RequestLogger(a.Logger.Named("http")))
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(v chi.Router) {
		v.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"status": "ok",
				"time":   time.Now().UTC().Format(time.RFC3339),
			})
		})
		a.streakHTTP.Mount(v)
		a.sessionHTTP.Mount(v)
	})
	return r
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Config.UserID, app.StreakCLI, app.SessionCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
