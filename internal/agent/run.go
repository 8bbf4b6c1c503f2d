package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"recruit_client/internal/api"
	"recruit_client/internal/config"
	"recruit_client/internal/drafts"
	"recruit_client/internal/events"
	"recruit_client/internal/httpapi"
	"recruit_client/internal/lock"
	"recruit_client/internal/logging"
	"recruit_client/internal/metrics"
	"recruit_client/internal/session"
	"recruit_client/internal/store"
	"recruit_client/internal/store/postgres"
	redisstore "recruit_client/internal/store/redis"
)

const keyPrefix = "recruit"

// Run запускает агент черновиков и блокирует выполнение до остановки.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(cfg.RedisURL, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", slog.String("error", err.Error()))
			}
		}()
	}

	slotStore, closeStore, err := openStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("slot storage ready", slog.String("driver", cfg.StoreDriver))

	exec := api.NewExecutor(cfg.APIBaseURL, api.Options{
		Timeout:            cfg.APITimeout,
		Token:              cfg.APIToken,
		IncludeCredentials: cfg.APIIncludeCredentials,
		Logger:             logger,
	})
	clients := api.NewClients(exec)
	sessionSlot := session.NewSlot(slotStore, cfg.SessionSlot)

	collector := metrics.NewCollector()
	opts := []drafts.Option{drafts.WithLogger(logger), drafts.WithPublisher(collector)}
	if cfg.DraftsLocking {
		opts = append(opts, drafts.WithLocker(newLocker(redisClient), cfg.LockTTL))
	}
	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("nats connect failed, outcome events disabled", slog.String("error", err.Error()))
		} else {
			defer publisher.Close()
			opts = append(opts, drafts.WithPublisher(publisher))
			logger.Info("publishing draft outcomes", slog.String("subject", cfg.NATSSubject))
		}
	}
	queue := drafts.NewQueue(slotStore, cfg.DraftsSlot, clients.Vacancies, sessionSlot, opts...)
	reconciler := drafts.NewReconciler(queue, cfg.ReconcileInterval, logger)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Drafts:      queue,
		Session:     httpapi.NewSessionHandler(clients.Users, sessionSlot),
		Metrics:     collector,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.APITimeout*2 + 10*time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("draft agent listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("draft agent server error", slog.String("error", err.Error()))
			stop()
		}
	}()
	go reconciler.Run(ctx)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("draft agent shutdown error", slog.String("error", err.Error()))
	}
	return nil
}

func connectRedis(url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("redis url parse failed", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	return client
}

func openStore(ctx context.Context, cfg config.Config, redisClient *redis.Client) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemory(cfg.StoreMaxBytes), noop, nil
	case config.DriverRedis:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis store unavailable at %s", cfg.RedisURL)
		}
		return redisstore.NewStore(redisClient, keyPrefix), noop, nil
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		fileStore, err := store.NewFile(cfg.StorePath, cfg.StoreMaxBytes)
		if err != nil {
			return nil, noop, err
		}
		return fileStore, noop, nil
	}
}

func newLocker(redisClient *redis.Client) lock.Locker {
	if redisClient != nil {
		return lock.NewRedis(redisClient, keyPrefix+":lock")
	}
	return lock.NewMemory()
}
