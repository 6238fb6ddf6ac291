package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/api"
	"github.com/hackgods/docspot/internal/appointment"
	"github.com/hackgods/docspot/internal/auth"
	"github.com/hackgods/docspot/internal/config"
	"github.com/hackgods/docspot/internal/db"
	"github.com/hackgods/docspot/internal/doctor"
	"github.com/hackgods/docspot/internal/email"
	"github.com/hackgods/docspot/internal/logging"
	"github.com/hackgods/docspot/internal/notify"
	redisclient "github.com/hackgods/docspot/internal/redis"
	"github.com/hackgods/docspot/internal/upload"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("api-server", "production", "info")
		log.Fatal().Err(err).Msg("config load error")
	}

	logging.Init("api-server", cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Str("version", version).Msg("api-server starting up")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("timezone")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, db.PoolOptions{})
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	applied, err := db.NewMigrator(pgPool, db.Migrations()).Up(rootCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
	if applied > 0 {
		log.Info().Int("applied", applied).Msg("migrations applied")
	}

	var (
		locker      redisclient.Locker = redisclient.NoopLocker{}
		redisPinger api.Pinger
	)
	if cfg.SlotLockEnabled {
		rdb, err := redisclient.NewRedisClient(rootCtx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing redis")
			}
		}()
		locker = redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
		redisPinger = api.RedisPinger{Client: rdb}
		log.Info().Dur("lock_ttl", cfg.LockTTL).Msg("connected to Redis, slot lock enabled")
	} else {
		log.Warn().Msg("slot lock disabled, concurrent bookings of one slot may both succeed")
	}

	var mailer notify.Mailer = email.LogMailer{}
	if cfg.SMTP.Enabled() {
		mailer = email.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Warn().Msg("SMTP_HOST not set, emails are logged instead of sent")
	}

	dispatcher := notify.NewDispatcher(notify.NewPgStore(pgPool), mailer, cfg.NotifyQueueSize)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	var dispatchWG sync.WaitGroup
	dispatchWG.Add(1)
	go func() {
		defer dispatchWG.Done()
		dispatcher.Run(dispatchCtx, cfg.NotifyWorkers)
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	accounts := account.NewService(account.NewPgRepository(pgPool), tokens, dispatcher)
	doctors := doctor.NewService(doctor.NewPgRepository(pgPool), dispatcher)
	appointments := appointment.NewService(appointment.NewPgRepository(pgPool), doctors, accounts, locker, dispatcher, loc)

	if created, err := accounts.EnsureAdmin(rootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("admin bootstrap failed")
	} else if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin account created")
	}

	documents, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir")
	}

	router := api.NewRouter(api.RouterConfig{
		Accounts:       accounts,
		Doctors:        doctors,
		Appointments:   appointments,
		Tokens:         tokens,
		Documents:      documents,
		Validate:       api.NewValidator(),
		Postgres:       pgPool,
		Redis:          redisPinger,
		Env:            cfg.Env,
		Version:        version,
		AllowedOrigins: allowedOrigins(cfg.ClientURL),
		UploadDir:      documents.Dir(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	stopDispatch()
	dispatchWG.Wait()

	log.Info().Msg("api-server stopped")
}

// allowedOrigins is CLIENT_URL (comma separated) plus the local dev client.
func allowedOrigins(clientURL string) []string {
	origins := []string{"http://localhost:5173"}
	for _, o := range strings.Split(clientURL, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && o != origins[0] {
			origins = append(origins, o)
		}
	}
	return origins
}
