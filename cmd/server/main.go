package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	cataloghandler "biblio/internal/catalog/handler"
	catalogservice "biblio/internal/catalog/service"
	catalogstore "biblio/internal/catalog/store"
	lendinghandler "biblio/internal/lending/handler"
	lendingmetrics "biblio/internal/lending/metrics"
	lendingservice "biblio/internal/lending/service"
	finestore "biblio/internal/lending/store/fine"
	loanstore "biblio/internal/lending/store/loan"
	"biblio/internal/platform/config"
	"biblio/internal/platform/httpserver"
	"biblio/internal/platform/logger"
	platformpg "biblio/internal/platform/postgres"
	platformredis "biblio/internal/platform/redis"
	"biblio/internal/reminder"
	reminderhandler "biblio/internal/reminder/handler"
	remindermetrics "biblio/internal/reminder/metrics"
	"biblio/internal/reminder/notifier"
	userhandler "biblio/internal/user/handler"
	userservice "biblio/internal/user/service"
	userstore "biblio/internal/user/store"
	"biblio/pkg/platform/middleware/accesslog"
	"biblio/pkg/platform/middleware/requestid"
	"biblio/pkg/platform/middleware/requesttime"
)

// main wires stores, services, sinks, and the HTTP router. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Store selection: Postgres when a DSN is configured, in-memory otherwise.
	var (
		books interface {
			catalogservice.BookStore
			lendingservice.BookStore
		}
		loans interface {
			lendingservice.LoanStore
			reminder.LoanStore
			userservice.LoanStore
		}
		fines lendingservice.FineStore
		users interface {
			userservice.UserStore
			reminder.UserStore
		}
	)
	if cfg.PostgresDSN != "" {
		db, err := platformpg.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := platformpg.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		books = catalogstore.NewPostgres(db)
		loans = loanstore.NewPostgres(db)
		fines = finestore.NewPostgres(db)
		users = userstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		books = catalogstore.NewInMemory()
		loans = loanstore.NewInMemory()
		fines = finestore.NewInMemory()
		users = userstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	engine := lendingservice.New(books, loans, fines,
		lendingservice.WithLogger(log),
		lendingservice.WithMetrics(lendingmetrics.New()),
	)
	catalog := catalogservice.New(books, catalogservice.WithLogger(log))
	accounts := userservice.New(users, loans, userservice.WithLogger(log))

	dispatcher := reminder.New(loans, users,
		reminder.WithLogger(log),
		reminder.WithMetrics(remindermetrics.New()),
	)
	dispatcher.AddObserver(notifier.NewEmailNotifier(notifier.NewLogEmailServer(log), log))

	if client, err := platformredis.New(cfg.Redis); err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	} else if client != nil {
		defer client.Close()
		dispatcher.AddObserver(notifier.NewRedisNotifier(client.Client, cfg.Redis.Channel, log))
		log.Info("redis reminder sink enabled", "channel", cfg.Redis.Channel)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := notifier.NewKafkaNotifier(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka setup failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		dispatcher.AddObserver(sink)
		log.Info("kafka reminder sink enabled", "topic", cfg.Kafka.Topic)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(accesslog.Middleware(log))

	cataloghandler.New(catalog, log).Register(router)
	userhandler.New(accounts, log).Register(router)
	lendinghandler.New(engine, catalog, log).Register(router)
	reminderhandler.New(dispatcher, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting biblio server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
