package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-platform/internal/app"
	"quiz-platform/internal/config"
	"quiz-platform/internal/infra/memory"
	"quiz-platform/internal/infra/postgres"
	redisstore "quiz-platform/internal/infra/redis"
	transport "quiz-platform/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores groups the three stores the quiz service needs plus their cleanup.
type stores struct {
	quizzes  app.QuizStore
	attempts app.ParticipationStore
	stats    app.StatsStore
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return stores{}, fmt.Errorf("ping redis: %w", err)
		}
		log.Info("using redis storage", "addr", cfg.Redis.Addr)
		return stores{
			quizzes:  redisstore.NewQuizStore(client),
			attempts: redisstore.NewParticipationStore(client),
			stats:    redisstore.NewStatsStore(client),
			close:    func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return stores{}, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}
		cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
		log.Info("using postgres storage", "quiz_cache_ttl", cacheTTL)
		return stores{
			quizzes:  memory.NewQuizCache(postgres.NewQuizStore(pool), cacheTTL),
			attempts: postgres.NewParticipationStore(pool),
			stats:    postgres.NewStatsStore(pool),
			close:    pool.Close,
		}, nil

	default:
		log.Info("using in-memory storage; data is lost on restart")
		return stores{
			quizzes:  memory.NewQuizStore(),
			attempts: memory.NewParticipationStore(),
			stats:    memory.NewStatsStore(),
			close:    func() {},
		}, nil
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "5000"
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	feed := app.NewStatsFeed()
	service := app.NewQuizService(st.quizzes, st.attempts, st.stats,
		app.WithLogger(log),
		app.WithStatsFeed(feed),
	)
	// prime the feed so the first websocket message reflects persisted counters
	if snapshot, err := service.Stats(ctx); err == nil {
		feed.Publish(snapshot)
	} else {
		log.Warn("initial stats snapshot failed", "error", err)
	}

	adminAuth := transport.NewAdminAuth(cfg.Admin.JWTSecret)
	if adminAuth == nil {
		log.Warn("admin.jwt_secret not set; create, toggle and reward endpoints are unauthenticated")
	}

	server := transport.NewServer(transport.ServerConfig{
		ListenAddr:    ":" + finalPort,
		ReadTimeout:   config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout:  config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
		DrainDuration: config.TTLDuration(cfg.Server.DrainDuration, 0),
		Log:           log,
	})
	router := transport.NewRouter(service, transport.RouterConfig{
		Log:            log,
		Feed:           feed,
		Admin:          adminAuth,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
		Ready:          server.Ready,
	})
	errc := server.Start(router)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	case err, ok := <-errc:
		if ok && err != nil {
			log.Error("failed to start server", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
