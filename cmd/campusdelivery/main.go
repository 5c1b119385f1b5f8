package main

import (
	"context"
	"database/sql"
	"errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ivanpodgorny/campusdelivery/internal/client"
	"github.com/ivanpodgorny/campusdelivery/internal/config"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	"github.com/ivanpodgorny/campusdelivery/internal/handler"
	"github.com/ivanpodgorny/campusdelivery/internal/logger"
	"github.com/ivanpodgorny/campusdelivery/internal/middleware"
	"github.com/ivanpodgorny/campusdelivery/internal/migrations"
	"github.com/ivanpodgorny/campusdelivery/internal/repository"
	"github.com/ivanpodgorny/campusdelivery/internal/security"
	"github.com/ivanpodgorny/campusdelivery/internal/service"
	"github.com/ivanpodgorny/campusdelivery/internal/validator"
	"github.com/ivanpodgorny/campusdelivery/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	notificationQueueSize = 32
	shutdownTimeout       = 10 * time.Second
)

func main() {
	if err := Execute(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func Execute() error {
	cfg, err := config.NewBuilder().LoadFlags().LoadEnv().Validate().Build()
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Development())
	if err != nil {
		return err
	}

	defer func() {
		_ = l.Sync()
	}()

	db, err := sql.Open("pgx", cfg.DatabaseURI())
	if err != nil {
		return err
	}

	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	if err := migrations.Up(db); err != nil {
		return err
	}

	validationEngine, err := validator.NewEngine()
	if err != nil {
		return err
	}

	hasher := security.NewArgonHasher(security.DefaultHashConfig())
	adminPasswordHash, err := hasher.Hash(cfg.AdminPassword())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		workersCtx, cancel = context.WithCancel(context.Background())
		wg                 = &sync.WaitGroup{}
		queue              = notificationQueue(workersCtx, cfg, wg, l)
		r                  = chi.NewRouter()
		v                  = validator.New(validationEngine)
		a                  = security.NewAuthenticator(cfg.JWTSecret(), cfg.TokenTTL())
		or                 = repository.NewOrder(db)
		pc                 = client.NewPaystack(cfg.PaystackBaseURL(), cfg.PaystackSecretKey(), cfg.PaystackTimeout())
		ors                = service.NewOrder(or, queue, l)
		ps                 = service.NewPayment(
			or,
			pc,
			security.NewWebhookSigner(cfg.PaystackSecretKey()),
			cfg.PaymentCallbackURL(),
			l,
		)
		as = service.NewAdmin(cfg.AdminUsername(), adminPasswordHash, hasher, a)
		oh = handler.NewOrder(ors, v, l)
		ph = handler.NewPayment(ps, v, l)
		ah = handler.NewAdmin(as, a, v)
	)

	defer func() {
		cancel()
		wg.Wait()
	}()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(l))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.LegacyTokenHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", oh.Create)
			r.Get("/{id}", oh.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(a))

				r.Get("/", oh.GetAll)
				r.Get("/phone/{phone}", oh.GetByPhone)
				r.Put("/{id}", oh.UpdateStatus)
				r.Delete("/{id}", oh.Delete)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/initialize", ph.Initialize)
			r.Get("/verify/{reference}", ph.Verify)
			r.Post("/webhook", ph.Webhook)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", ah.Login)
			r.With(middleware.Authenticate(a)).Get("/profile", ah.Profile)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		l.Info("shutting down")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Errorw("server shutdown failed", "error", err)
		}
	}()

	l.Infow("server started", "address", cfg.ServerAddress())
	err = srv.ListenAndServe()

	return err
}

// notificationQueue запускает воркеры отправки уведомлений о заказах и возвращает
// их очередь. Если SMTP-сервер не настроен, уведомления отключены и возвращается nil.
func notificationQueue(ctx context.Context, cfg config.Config, wg *sync.WaitGroup, l *zap.SugaredLogger) chan<- entity.Order {
	if cfg.SMTPHost() == "" {
		l.Info("order notifications disabled")

		return nil
	}

	var (
		queue  = make(chan entity.Order, notificationQueueSize)
		mailer = client.NewMailer(
			cfg.SMTPHost(),
			cfg.SMTPPort(),
			cfg.SMTPUsername(),
			cfg.SMTPPassword(),
			cfg.EmailFrom(),
			cfg.EmailTo(),
		)
	)
	worker.NewNotifier(mailer, queue, wg, cfg.NotifyWorkers(), l).Do(ctx)

	return queue
}
