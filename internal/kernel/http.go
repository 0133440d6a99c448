// Package kernel assembles the HTTP handler of the back office: the global
// middleware stack, the ambient endpoints and the application routes.
package kernel

import (
	"io/fs"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/routes"
	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/middleware"
	"github.com/staydesk/staydesk/pkg/reqid"
	"github.com/staydesk/staydesk/pkg/response"
	"github.com/staydesk/staydesk/pkg/router"
	"github.com/staydesk/staydesk/pkg/session"
	"github.com/staydesk/staydesk/pkg/storage"
)

const (
	rateLimit  = 200
	rateWindow = time.Minute
)

// HTTPKernel owns the router and the rate limiter whose buckets the server
// sweeps.
type HTTPKernel struct {
	router  *router.Router
	limiter *middleware.Limiter
}

// NewHTTPKernel builds the handler for db and disk.
func NewHTTPKernel(db *gorm.DB, disk storage.Disk) *HTTPKernel {
	k := &HTTPKernel{
		router:  router.New(),
		limiter: middleware.NewLimiter(rateLimit, rateWindow),
	}
	r := k.router

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost
	//  2. Recovery: recovers panics
	//  3. Request ID: before anything logs
	//  4. Logger: logs request_id from context
	//  5. Session: flash messages across redirects
	//  6. CORS: set CORS headers
	//  7. Rate limiter: reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(sessionOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSAllowedOrigins())))
	r.Use(k.limiter.Middleware)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", health(db))

	if local, ok := disk.(*storage.LocalDisk); ok {
		files := http.StripPrefix("/storage/", http.FileServer(noListing{http.Dir(local.Root())}))
		r.Handle("/storage/*", "storage", files)
	}

	routes.Register(r, db, disk)
	return k
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) Limiter() *middleware.Limiter { return k.limiter }

func sessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.Secure = config.IsProduction()
	return opts
}

// health pings the database.
func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}

// noListing hides directory indexes of the public disk.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	if stat, err := f.Stat(); err != nil || stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
