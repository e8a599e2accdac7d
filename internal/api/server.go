// Package api serves domain resolution over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/alignment"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/pipeline"
)

// Resolver resolves triples; *pipeline.Runner implements it.
type Resolver interface {
	Resolve(ctx context.Context, triples []igdomain.Triple) ([]pipeline.Result, error)
}

// MaxTriples bounds the size of a keyspace request.
const MaxTriples = 1000

// Server holds the handler dependencies.
type Server struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewRouter returns the HTTP handler for the API.
func NewRouter(res Resolver, logger *zap.Logger, timeout time.Duration) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{resolver: res, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/domains/{structure}/{chain}/{domain}", s.getDomain)
		r.Post("/keyspace", s.keyspace)
	})
	return r
}

// getDomain returns the descriptor of one triple.
func (s *Server) getDomain(w http.ResponseWriter, r *http.Request) {
	t := igdomain.Triple{
		StructureID: strings.ToUpper(chi.URLParam(r, "structure")),
		Chain:       chi.URLParam(r, "chain"),
		Domain:      chi.URLParam(r, "domain"),
	}

	results, err := s.resolver.Resolve(r.Context(), []igdomain.Triple{t})
	if err != nil {
		s.logger.Error("resolve failed", zap.String("triple", t.Key()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := results[0]
	switch res.Status {
	case pipeline.Found:
		writeJSON(w, http.StatusOK, res.Desc)
	case pipeline.NotFound:
		writeError(w, http.StatusNotFound, errText(res.Err, "domain not found"))
	default:
		writeError(w, http.StatusBadGateway, errText(res.Err, "numbering unavailable"))
	}
}

// KeyspaceResponse is the unified column axis of a set of triples.
type KeyspaceResponse struct {
	Keys    []string `json:"keys"`
	Rows    []string `json:"rows"`
	Skipped []string `json:"skipped"`
}

// keyspace unifies the numbering labels of the posted triples.
func (s *Server) keyspace(w http.ResponseWriter, r *http.Request) {
	var triples []igdomain.Triple
	if err := json.NewDecoder(r.Body).Decode(&triples); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(triples) == 0 || len(triples) > MaxTriples {
		writeError(w, http.StatusBadRequest, "expected 1 to 1000 triples")
		return
	}
	for i := range triples {
		triples[i].StructureID = strings.ToUpper(triples[i].StructureID)
	}

	results, err := s.resolver.Resolve(r.Context(), triples)
	if err != nil {
		s.logger.Error("resolve failed", zap.Int("triples", len(triples)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := KeyspaceResponse{Rows: []string{}, Skipped: []string{}}
	var descs []*igdomain.Descriptor
	for _, res := range results {
		if res.Status == pipeline.Skipped {
			resp.Skipped = append(resp.Skipped, res.Triple.Key())
			continue
		}
		descs = append(descs, res.Desc)
		resp.Rows = append(resp.Rows, res.Desc.Key)
	}
	resp.Keys = alignment.UnifyKeys(descs)
	writeJSON(w, http.StatusOK, resp)
}

func errText(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
