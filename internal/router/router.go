package router

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mezunhub/alumni-core/internal/alumni"
	"github.com/mezunhub/alumni-core/internal/config"
	"github.com/mezunhub/alumni-core/internal/token"
	"github.com/mezunhub/alumni-core/internal/user"
	"github.com/mezunhub/alumni-core/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware tags each request with a correlation id and logs it at
// debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := utilities.NewRequestID()
			w.Header().Set("X-Request-Id", reqID)
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows cross-origin requests from the configured origin
// list. Preflight requests are answered directly.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts all HTTP handlers on a stdlib http.ServeMux and
// wraps them with the CORS, security-header, and logging middleware.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	userSvc := user.NewService(db, nil, nil, tokens, cfg.BcryptCost)
	userHandler := user.NewHandler(userSvc, logger)
	alumniHandler := alumni.NewHandler(alumni.NewService(db, nil), logger)

	// health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /api/db-test", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Errorw("db test failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "Database connected"})
	})

	// auth routes
	mux.HandleFunc("POST /api/auth/register", userHandler.Register)
	mux.HandleFunc("POST /api/auth/login", userHandler.Login)

	// user routes; the literal "profile" segment takes precedence over {id}
	mux.Handle("GET /api/users/profile", tokens.Authorize(http.HandlerFunc(userHandler.Profile)))
	mux.Handle("PATCH /api/users/profile", tokens.Authorize(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.HandleFunc("GET /api/users/{id}", userHandler.PublicProfile)

	// admin routes; the admin flag is re-read from the store per request
	mux.Handle("GET /api/admin/users", tokens.Authorize(http.HandlerFunc(userHandler.AdminListUsers)))

	// alumni directory
	mux.HandleFunc("GET /api/alumni", alumniHandler.List)
	mux.HandleFunc("GET /api/alumni/search", alumniHandler.Search)
	mux.HandleFunc("GET /api/alumni/stats", alumniHandler.Stats)

	// JSON 404 for everything else
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
	})

	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(CORSMiddleware(cfg.AllowedOrigins)(mux)))
	return handler
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
