package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/auth"
	"sorawallet/internal/domain"
)

// Server is a development backend. It keeps DDOs in memory and checks the
// signature of every authenticated call.
type Server struct {
	Verifier *auth.Verifier
	Registry *auth.Registry
	Log      *logrus.Logger
}

// NewServer returns a Server whose verifier resolves DIDs from its own registry.
func NewServer(verifier auth.Verifier, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	reg := auth.NewRegistry()
	verifier.Resolver = reg
	return &Server{Verifier: &verifier, Registry: reg, Log: log}
}

// Handler returns the routes of the backend wrapped in an access log.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(PathPing, s.handlePing)
	mux.HandleFunc(PathDDO, s.handleRegister)
	mux.HandleFunc(PathDDO+"/", s.handleFetch)
	return s.accessLog(mux)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	owner, err := s.authenticate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	writeJSON(w, PingResponse{DID: owner})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	owner, err := s.authenticate(r)
	if err != nil || owner == "" {
		http.Error(w, "signed request required", http.StatusUnauthorized)
		return
	}
	var ddo domain.DDO
	if err := json.NewDecoder(r.Body).Decode(&ddo); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ddo.ID != owner {
		http.Error(w, "ddo does not belong to caller", http.StatusForbidden)
		return
	}
	if err := s.Registry.Register(ddo); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Log.WithField("did", owner).Info("registered ddo")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	owner := domain.DID(strings.TrimPrefix(r.URL.Path, PathDDO+"/"))
	ddo, err := s.Registry.ResolveDDO(r.Context(), owner)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, ddo)
}

// authenticate returns the verified caller, or "" for an anonymous call. A
// first-time caller may register its own DDO: the key is taken from the
// request body only when its DID is not yet known. Each request is counted
// once, by its final outcome.
func (s *Server) authenticate(r *http.Request) (domain.DID, error) {
	v := *s.Verifier
	v.Metrics = nil
	owner, err := v.Verify(r)
	if errors.Is(err, auth.ErrUnknownDID) && r.Method == http.MethodPost && r.URL.Path == PathDDO {
		owner, err = s.bootstrap(r, v)
	}
	s.Verifier.Metrics.ObserveVerification(err)
	if errors.Is(err, auth.ErrUnauthenticated) {
		return "", nil
	}
	return owner, err
}

// bootstrap verifies a registration against the DDO it carries.
func (s *Server) bootstrap(r *http.Request, v auth.Verifier) (domain.DID, error) {
	var ddo domain.DDO
	body, err := peekJSON(r, &ddo)
	if err != nil {
		return "", err
	}
	v.Resolver = staticResolver{ddo: ddo}
	owner, err := v.Verify(r)
	restoreBody(r, body)
	return owner, err
}

type staticResolver struct{ ddo domain.DDO }

func (s staticResolver) ResolveDDO(_ context.Context, owner domain.DID) (domain.DDO, error) {
	if s.ddo.ID != owner {
		return domain.DDO{}, auth.ErrUnknownDID
	}
	return s.ddo, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start),
			"did":      r.Header.Get(auth.HeaderID),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
