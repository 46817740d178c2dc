package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/config"
	"github.com/xavierca1/lead-manager/internal/entity"
	"github.com/xavierca1/lead-manager/internal/infra/database"
	"github.com/xavierca1/lead-manager/internal/infra/http/handlers"
	"github.com/xavierca1/lead-manager/internal/infra/http/middleware"
	"github.com/xavierca1/lead-manager/internal/infra/logger"
	"github.com/xavierca1/lead-manager/internal/infra/mail"
	"github.com/xavierca1/lead-manager/internal/infra/queue"
	"github.com/xavierca1/lead-manager/internal/infra/worker"
	"github.com/xavierca1/lead-manager/internal/usecase"
)

const serviceName = "lead-manager"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	var (
		db   *sql.DB
		repo entity.LeadRepositoryInterface
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("connect to postgres", zap.Error(err))
		}
		defer db.Close()
		if err := database.Migrate(ctx, db, log); err != nil {
			log.Fatal("apply migrations", zap.Error(err))
		}
		repo = database.NewLeadRepository(db, log)
	default:
		log.Warn("using in-memory lead store; data is lost on restart")
		repo = database.NewMemoryLeadRepository()
	}

	// 2. Broker and notification worker
	var (
		publisher usecase.LeadEventPublisher = queue.NopPublisher{}
		amqpConn  *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("connect to rabbitmq", zap.Error(err))
		}
		defer rmq.Close()
		amqpConn = rmq.Conn
		publisher = countingPublisher{next: queue.NewProducer(rmq.Ch)}

		if cfg.MailEnabled() {
			sender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
				cfg.MailFrom, cfg.NotifyEmail, cfg.ClientURL)
			w := queue.NewWorker(rmq.Ch, sender, log)
			go func() {
				if err := w.Start(ctx, queue.QueueName); err != nil {
					log.Error("notification worker exited", zap.Error(err))
				}
			}()
		}
	} else {
		log.Info("RABBITMQ_URL not set; lead events disabled")
	}

	// 3. Rate limiter
	var (
		limiter middleware.Limiter
		rdb     *redis.Client
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("parse REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.EffectiveRateLimit(), cfg.RateLimitWindow)
	} else {
		mem := middleware.NewMemoryLimiter(cfg.EffectiveRateLimit(), cfg.RateLimitWindow)
		go mem.Cleanup(ctx, time.Minute)
		limiter = mem
	}

	// 4. Background gauges
	gauges := worker.NewLeadGaugeWorker(repo, middleware.LeadsTotal, middleware.LeadsByStatus, log, cfg.GaugeRefreshInterval)
	go gauges.Start(ctx)

	// 5. Use cases
	leadHandler := handlers.NewLeadHandler(
		usecase.NewCreateLeadUseCase(repo, publisher, log, time.Now),
		usecase.NewGetLeadUseCase(repo),
		usecase.NewUpdateLeadUseCase(repo, publisher, log, time.Now),
		usecase.NewDeleteLeadUseCase(repo, publisher, log, time.Now),
		usecase.NewListLeadsUseCase(repo),
		usecase.NewGetAnalyticsUseCase(repo, time.Now, cfg.Location()),
		usecase.NewExportLeadsUseCase(repo, cfg.ExportMaxRows),
		log,
	)

	// 6. Router
	router := handlers.NewRouter(handlers.RouterConfig{
		Leads:         leadHandler,
		Health:        handlers.NewHealthHandler(db, amqpConn, rdb),
		Authenticator: middleware.NewAuthenticator(cfg.JWTSecret, log),
		Limiter:       limiter,
		ClientURL:     cfg.ClientURL,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// countingPublisher records every publish attempt in the event metrics.
type countingPublisher struct {
	next usecase.LeadEventPublisher
}

func (p countingPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	err := p.next.PublishLeadEvent(ctx, event)
	middleware.RecordEventPublish(string(event.Type), err)
	return err
}
