// Package nexustest provides an in-memory repository manager serving the
// global settings resource, for use in tests.
package nexustest

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// GlobalSettingsPath is the route of the global settings resource.
const GlobalSettingsPath = "/service/local/global_settings/current"

// DefaultDocument is a global settings resource with no proxy configured.
const DefaultDocument = `{
  "securityEnabled": true,
  "securityAnonymousAccessEnabled": true,
  "baseUrl": "http://localhost:8081/nexus",
  "globalConnectionTimeout": 20,
  "globalRetryCount": 3,
  "smtpSettings": {"host": "smtp.example.com", "port": 25}
}`

// Server is a fake repository manager.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	document json.RawMessage
	username string
	password string
	getFail  int
	putFail  int
	gets     int
	puts     int
	headers  http.Header
	ids      []string
}

// Option configures a Server.
type Option func(*Server)

// WithCredentials makes the server require basic authentication.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithDocument sets the initial content of the resource's data member.
func WithDocument(doc string) Option {
	return func(s *Server) {
		s.document = json.RawMessage(doc)
	}
}

// NewServer starts a Server. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{document: json.RawMessage(DefaultDocument)}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.handler())
	return s
}

func (s *Server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.recordHeaders)
	if s.username != "" {
		r.Use(s.basicAuth)
	}

	r.Get(GlobalSettingsPath, s.handleGet)
	r.Put(GlobalSettingsPath, s.handlePut)

	return r
}

func (s *Server) recordHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = r.Header.Clone()
		s.ids = append(s.ids, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.gets++
	fail := s.getFail
	doc := s.document
	s.mu.Unlock()

	if fail != 0 {
		http.Error(w, http.StatusText(fail), fail)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]json.RawMessage{"data": doc})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.puts++
	fail := s.putFail
	s.mu.Unlock()

	if fail != 0 {
		http.Error(w, http.StatusText(fail), fail)
		return
	}

	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "json") {
		http.Error(w, "wrong request content type", http.StatusUnsupportedMediaType)
		return
	}

	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		http.Error(w, "missing data", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.document = req.Data
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// FailGet makes subsequent GETs answer with status. Zero restores success.
func (s *Server) FailGet(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getFail = status
}

// FailPut makes subsequent PUTs answer with status. Zero restores success.
func (s *Server) FailPut(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putFail = status
}

// Gets returns the number of GET requests served.
func (s *Server) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// Puts returns the number of PUT requests received.
func (s *Server) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Document returns the stored data member as raw JSON.
func (s *Server) Document() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(json.RawMessage(nil), s.document...)
}

// SetDocument replaces the stored data member.
func (s *Server) SetDocument(doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = json.RawMessage(doc)
}

// LastHeaders returns the headers of the most recent request.
func (s *Server) LastHeaders() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers.Clone()
}

// RequestIDs returns the X-Request-ID header of every request, in order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}
