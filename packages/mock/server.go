// Package mock provides the reference HTTP server the smoke sequence is
// written against: every path is an endpoint holding the last body written
// to it.
package mock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// MaxBodyBytes caps the size of a stored body.
const MaxBodyBytes = 1 << 20

// textTypes are the media types accepted for POST, PUT and PATCH.
var textTypes = map[string]bool{
	"text/plain":       true,
	"text/html":        true,
	"text/css":         true,
	"text/javascript":  true,
	"application/json": true,
	"application/xml":  true,
}

// Server is the reference /test server
type Server struct {
	store   *Store
	port    int
	delay   time.Duration
	version string
	logger  logr.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithLogger sets the access logger. Per-request lines are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithVersion sets the version reported in the Server header
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a new reference server
func NewServer(opts ...Option) *Server {
	s := &Server{
		store:   NewStore(),
		port:    8080,
		version: "dev",
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the server's backing store
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the HTTP handler serving every path
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	return mux
}

// StartWithContext serves until ctx is cancelled, then shuts down gracefully
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("reference server starting", "addr", "http://"+ln.Addr().String())

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type reply struct {
	status      int
	contentType string
	body        string
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	w.Header().Set("Server", "hitsmoke/"+s.version)

	rep := s.dispatch(w, r)

	if rep.contentType != "" {
		w.Header().Set("Content-Type", rep.contentType)
	}
	w.WriteHeader(rep.status)
	if rep.body != "" {
		_, _ = io.WriteString(w, rep.body)
	}

	s.logger.V(1).Info("request served",
		"id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rep.status,
		"duration", time.Since(start).String(),
	)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) reply {
	switch r.Method {
	case http.MethodGet:
		return s.handleGet(r)
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return s.handleWrite(w, r)
	case http.MethodDelete:
		return s.handleDelete(r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, PATCH, DELETE")
		return textReply(http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (s *Server) handleGet(r *http.Request) reply {
	entry, ok := s.store.Get(r.URL.Path)
	if !ok {
		return textReply(http.StatusNotFound, "Not Found")
	}

	contentType := "text/plain"
	if gjson.ValidBytes(entry.Body) {
		contentType = "application/json"
	}
	return reply{status: http.StatusOK, contentType: contentType, body: string(entry.Body) + "\n"}
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) reply {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return textReply(http.StatusPreconditionFailed, "Precondition Failed: Content-Type required")
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !textTypes[strings.ToLower(mediaType)] {
		return textReply(http.StatusUnsupportedMediaType, "Unsupported Media Type")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return textReply(http.StatusRequestEntityTooLarge, "Request Entity Too Large")
		}
		return textReply(http.StatusBadRequest, "Bad Request")
	}

	if len(body) > 0 {
		s.store.Put(r.URL.Path, body, mediaType)
		if mediaType == "application/json" {
			if msg := gjson.GetBytes(body, "message"); msg.Exists() {
				s.logger.V(1).Info("stored JSON message", "path", r.URL.Path, "message", msg.String())
			}
		}
	}

	return textReply(http.StatusOK, "OK")
}

func (s *Server) handleDelete(r *http.Request) reply {
	if !s.store.Delete(r.URL.Path) {
		return textReply(http.StatusNotFound, "Not Found")
	}
	return reply{status: http.StatusNoContent}
}

func textReply(status int, msg string) reply {
	return reply{status: status, contentType: "text/plain", body: msg + "\n"}
}
