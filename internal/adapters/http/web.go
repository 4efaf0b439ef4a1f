package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/email"
	"github.com/Lautaro124/curso/internal/adapters/http/middleware"
	"github.com/Lautaro124/curso/internal/adapters/http/perf"
	"github.com/Lautaro124/curso/internal/adapters/objectstore"
	accessStore "github.com/Lautaro124/curso/internal/adapters/storage/access"
	accountStore "github.com/Lautaro124/curso/internal/adapters/storage/account"
	auditStore "github.com/Lautaro124/curso/internal/adapters/storage/audit"
	courseStore "github.com/Lautaro124/curso/internal/adapters/storage/course"
	lessonStore "github.com/Lautaro124/curso/internal/adapters/storage/lesson"
	moduleStore "github.com/Lautaro124/curso/internal/adapters/storage/module"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	CourseStore  courseStore.Store
	ModuleStore  moduleStore.Store
	LessonStore  lessonStore.Store
	AccessStore  accessStore.Store
	// AuditStore records admin mutations. Optional; nil disables the audit trail.
	AuditStore auditStore.Store
	// ElevatedCourseStore retries course updates the standard pool may not perform. Optional.
	ElevatedCourseStore orchestrators.CourseUpdater
}

// Pinger reports database liveness for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options are the process-level settings and collaborators handed to NewMux.
type Options struct {
	StaticDir string
	// UploadDir is served under /uploads/ when uploads are kept on local disk.
	UploadDir      string
	SiteURL        string
	CSRFKey        []byte
	Secure         bool
	TrustedOrigins []string
	RateLimit      int
	SlowRequestMs  int

	Sessions  middleware.SessionStore
	Objects   objectstore.Store
	Mailer    email.Sender
	Collector *perf.Collector
	DB        Pinger
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Upload destination (set by NewMux)
var objects objectstore.Store

// Welcome e-mail sender; nil disables sending.
var mailer email.Sender

// siteURL is the public base URL used in e-mail links.
var siteURL string

// healthDB is pinged by /healthz.
var healthDB Pinger

// csrfKeyOrRandom returns key, or a fresh random key when none is configured.
// Production refuses to start without a key, so the random key only serves development.
func csrfKeyOrRandom(key []byte) []byte {
	if len(key) == 32 {
		return key
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("generate CSRF key: " + err.Error())
	}
	slog.Warn("config_event", "event", "random_csrf_key", "detail", "forms will not survive a restart; set CURSO_CSRF_KEY")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	sessions = opts.Sessions
	if sessions == nil {
		sessions = middleware.NewMemorySessionStore()
	}
	perfCollector = opts.Collector
	objects = opts.Objects
	mailer = opts.Mailer
	siteURL = opts.SiteURL
	healthDB = opts.DB
	middleware.SecureCookies = opts.Secure

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	if opts.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}
	registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKeyOrRandom(opts.CSRFKey), opts.Secure, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	)
}
