package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	emailPkg "github.com/Lautaro124/curso/internal/adapters/email"
	web "github.com/Lautaro124/curso/internal/adapters/http"
	"github.com/Lautaro124/curso/internal/adapters/http/middleware"
	"github.com/Lautaro124/curso/internal/adapters/http/perf"
	"github.com/Lautaro124/curso/internal/adapters/objectstore"
	"github.com/Lautaro124/curso/internal/adapters/storage"
	accessStore "github.com/Lautaro124/curso/internal/adapters/storage/access"
	accountStore "github.com/Lautaro124/curso/internal/adapters/storage/account"
	auditStore "github.com/Lautaro124/curso/internal/adapters/storage/audit"
	courseStore "github.com/Lautaro124/curso/internal/adapters/storage/course"
	lessonStore "github.com/Lautaro124/curso/internal/adapters/storage/lesson"
	moduleStore "github.com/Lautaro124/curso/internal/adapters/storage/module"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
	"github.com/Lautaro124/curso/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("config_event", "event", "load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("internal_error", "event", "server_exit", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)

	raw, dialect, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	db := storage.NewTimedDB(raw, dialect, collector, cfg.SlowQueryMs)
	defer db.Close()

	if err := storage.MigrateDB(ctx, db); err != nil {
		return err
	}
	slog.Info("db_event", "event", "migrated", "dialect", dialect, "schema", storage.LatestSchemaVersion())

	acctStore := accountStore.NewSQLStore(db)
	stores := &web.Stores{
		AccountStore: acctStore,
		CourseStore:  courseStore.NewSQLStore(db),
		ModuleStore:  moduleStore.NewSQLStore(db),
		LessonStore:  lessonStore.NewSQLStore(db),
		AccessStore:  accessStore.NewSQLStore(db),
		AuditStore:   auditStore.NewSQLStore(db),
	}

	// Course updates fall back to the elevated pool when row-level policy denies the standard one.
	if cfg.DatabaseAdminURL != "" {
		adminRaw, adminDialect, err := storage.Open(cfg.DatabaseAdminURL)
		if err != nil {
			return err
		}
		adminDB := storage.NewTimedDB(adminRaw, adminDialect, collector, cfg.SlowQueryMs)
		defer adminDB.Close()
		stores.ElevatedCourseStore = courseStore.NewSQLStore(adminDB)
		slog.Info("db_event", "event", "elevated_pool_ready")
	}

	// Seed the configured admin if no accounts exist
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore, GenerateID: uuid.NewString, Now: time.Now}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	var mailer emailPkg.Sender
	if cfg.ResendKey != "" {
		mailer = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_event", "event", "sender_configured", "provider", "resend")
	} else {
		mailer = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_event", "event", "delivery_disabled", "detail", "CURSO_RESEND_KEY is not set")
		}
	}

	var objects objectstore.Store
	uploadDir := ""
	if cfg.GCSBucket != "" {
		gcs, err := objectstore.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCDNDomain, cfg.GCSCredentialsFile)
		if err != nil {
			return err
		}
		defer gcs.Close()
		objects = gcs
		slog.Info("upload_event", "event", "store_configured", "backend", "gcs", "bucket", cfg.GCSBucket)
	} else {
		local, err := objectstore.NewLocalStore(cfg.UploadDir, "/uploads")
		if err != nil {
			return err
		}
		objects = local
		uploadDir = local.Root()
		slog.Info("upload_event", "event", "store_configured", "backend", "local", "dir", uploadDir)
	}

	var sessions middleware.SessionStore
	if cfg.RedisAddr != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = middleware.NewRedisSessionStore(client)
		slog.Info("auth_event", "event", "session_store", "backend", "redis")
	} else {
		sessions = middleware.NewMemorySessionStore()
	}

	handler := web.NewMux(stores, web.Options{
		StaticDir:     "static",
		UploadDir:     uploadDir,
		SiteURL:       cfg.SiteURL,
		CSRFKey:       cfg.CSRFKey,
		Secure:        cfg.IsProduction(),
		RateLimit:     cfg.RateLimit,
		SlowRequestMs: cfg.SlowRequestMs,
		Sessions:      sessions,
		Objects:       objects,
		Mailer:        mailer,
		Collector:     collector,
		DB:            db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
