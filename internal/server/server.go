package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-sync/internal/chat"
	"github.com/jonathan/interview-sync/internal/cvsync"
	"github.com/jonathan/interview-sync/internal/db"
	"github.com/jonathan/interview-sync/internal/portal"
	"github.com/jonathan/interview-sync/internal/server/middleware"
	"github.com/jonathan/interview-sync/internal/server/ratelimit"
	"github.com/jonathan/interview-sync/internal/transcript"
)

// DefaultSessionTTL is how long an idle chat session is kept in memory.
const DefaultSessionTTL = 24 * time.Hour

// RoleSyncer copies one role's files to blob storage.
type RoleSyncer interface {
	SyncRole(ctx context.Context, roleID int) (cvsync.Summary, error)
}

// TranscriptArchive reads transcripts back from the database archive.
type TranscriptArchive interface {
	GetTranscript(ctx context.Context, id string) (*db.ArchivedTranscript, error)
}

// TranscriptSaver persists a finished interview.
type TranscriptSaver interface {
	Save(ctx context.Context, t transcript.Transcript) error
}

// Options configures a Server. Nil collaborators disable their routes,
// which then answer 503.
type Options struct {
	Port           int
	AllowedOrigins []string
	WebhookSecret  string
	// JobsTable filters webhook payloads to the job table. Empty accepts
	// any table.
	JobsTable  string
	Debug      bool
	SessionTTL time.Duration
	RateLimit  ratelimit.Config

	Syncer   RoleSyncer
	Sessions *chat.Manager
	Portal   *portal.Builder
	Saver    TranscriptSaver
	Archive  TranscriptArchive
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	opts        Options
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate

	// baseCtx outlives requests; background syncs started by webhooks use it.
	baseCtx context.Context
	jobs    sync.WaitGroup
}

// New creates a new server instance.
func New(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		opts:        opts,
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		validate:    validator.New(),
		baseCtx:     context.Background(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	webhook := middleware.RequireSecret(opts.WebhookSecret)
	mux.Handle("POST /webhook", webhook(http.HandlerFunc(s.handleWebhook)))
	mux.Handle("POST /roles/{id}/sync", webhook(http.HandlerFunc(s.handleRoleSync)))
	mux.Handle("GET /transcripts/{id}", webhook(http.HandlerFunc(s.handleGetTranscript)))

	mux.HandleFunc("POST /sessions", s.handleStartSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handlePostMessage)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully and waits
// for background syncs to finish.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = context.WithoutCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[WEBHOOK] Server listening on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if s.opts.Sessions != nil {
		go s.pruneSessions(ctx)
	}

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[WEBHOOK] Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Wait()
	s.rateLimiter.Stop()
	log.Println("[WEBHOOK] Server stopped")
	return nil
}

// Wait blocks until background syncs started by webhooks are done.
func (s *Server) Wait() {
	s.jobs.Wait()
}

func (s *Server) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.opts.Sessions.Prune(time.Now().Add(-s.opts.SessionTTL)); n > 0 {
				log.Printf("[CHAT] Pruned %d idle sessions", n)
			}
		}
	}
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.opts.AllowedOrigins) > 0 {
			origin = ""
			if o := r.Header.Get("Origin"); slices.Contains(s.opts.AllowedOrigins, o) {
				origin = o
			}
			w.Header().Add("Vary", "Origin")
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.SecretHeader)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their request budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds()+0.999)))
			}
			log.Printf("[WEBHOOK] Rate limit exceeded for %s %s", r.Method, r.URL.Path)
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging. Debug mode also logs the request line
// before the handler runs.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.opts.Debug {
			log.Printf("[%s] %s %s", r.Method, r.URL.RequestURI(), r.RemoteAddr)
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// clientID is the remote IP without its port.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.opts.Sessions != nil {
		body["sessions"] = s.opts.Sessions.Len()
	}
	s.jsonResponse(w, http.StatusOK, body)
}

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ErrValidation{Field: verrs[0].Field(), Message: "failed on '" + verrs[0].Tag() + "'"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to its status code and writes it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[WEBHOOK] Request failed: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}
