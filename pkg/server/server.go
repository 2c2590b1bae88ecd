// Package server exposes graph viewers over HTTP.
//
// # Routes
//
//	POST   /graphs                               load a plain graph into a new viewer
//	GET    /graphs                               list viewer ids
//	GET    /graphs/{id}                          export the viewer as a plain graph
//	GET    /graphs/{id}/render.{format}          render (svg, dot, graphviz, pdf, png, json)
//	PUT    /graphs/{id}/nodes/{node}/properties  set raw properties on a node or edge
//	DELETE /graphs/{id}                          drop the viewer
//	GET    /healthz                              liveness
//
// Errors are JSON objects {"code": ..., "message": ...} with a status
// derived from the error code.
package server

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/graphviewer/pkg/buildinfo"
	"github.com/matzehuels/graphviewer/pkg/cache"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/observability"
	"github.com/matzehuels/graphviewer/pkg/pipeline"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/plugin"
	"github.com/matzehuels/graphviewer/pkg/render"
	"github.com/matzehuels/graphviewer/pkg/viewer"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 16 << 20

// Options configures a Server.
type Options struct {
	// Runner renders artifacts, caching them through its cache.
	// Defaults to a runner without cache.
	Runner *pipeline.Runner

	// Render holds the default render options for new viewers.
	Render pipeline.Options

	Logger *log.Logger
}

// Server holds the live viewers.
type Server struct {
	router   chi.Router
	registry *plugin.Registry
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger

	mu      sync.RWMutex
	viewers map[string]*viewer.Viewer
}

// New returns a server with the GraphViewer component installed.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(cache.NewNullCache(), nil, opts.Logger)
	}

	reg := plugin.NewRegistry()
	plugin.Install(reg)

	s := &Server{
		registry: reg,
		runner:   opts.Runner,
		defaults: opts.Render,
		logger:   opts.Logger,
		viewers:  make(map[string]*viewer.Viewer),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleExport)
			r.Delete("/", s.handleDelete)
			r.Get("/render.{format}", s.handleRender)
			r.Put("/nodes/{node}/properties", s.handleSetProperties)
		})
	})
	s.router = r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type createResponse struct {
	ID      string `json:"id"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Skipped any    `json:"skipped"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	g, err := plain.ReadGraph(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	id := g.ID
	if id == "" {
		id = uuid.NewString()
	} else if err := errors.ValidateID(id); err != nil {
		writeError(w, err)
		return
	}

	if s.exists(id) {
		writeError(w, errExists(id))
		return
	}

	v, err := s.registry.New(plugin.ComponentName, viewer.Options{
		ID:      id,
		Convert: s.defaults.ConvertOptions(),
		Render:  s.defaults.RenderOptions(id),
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := v.Load(r.Context(), g)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	if _, taken := s.viewers[id]; taken {
		s.mu.Unlock()
		writeError(w, errExists(id))
		return
	}
	s.viewers[id] = v
	s.mu.Unlock()

	skipped := any(res.Skipped)
	if res.Skipped == nil {
		skipped = []struct{}{}
	}
	w.Header().Set("Location", "/graphs/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Nodes: res.Nodes, Edges: res.Edges, Skipped: skipped})
}

func (s *Server) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.viewers[id]
	return ok
}

// errExists rejects a create for an id that is already live. Clients
// replace a graph by deleting it first.
func errExists(id string) error {
	return errors.New(errors.ErrCodeAlreadyExists, "graph %q already exists", id)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ids := slices.Sorted(maps.Keys(s.viewers))
	s.mu.RUnlock()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": ids})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewer(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := plain.WriteGraph(v.Export(), w); err != nil {
		s.logger.Warn("write export", "error", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewer(w, r)
	if !ok {
		return
	}
	f, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.defaults
	opts.Formats = []string{string(f)}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	data, err := plain.MarshalGraph(v.Export())
	if err != nil {
		writeError(w, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), v, cache.Hash(data), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(f)])
}

func (s *Server) handleSetProperties(w http.ResponseWriter, r *http.Request) {
	v, ok := s.viewer(w, r)
	if !ok {
		return
	}
	var props map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&props); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode properties"))
		return
	}

	node := chi.URLParam(r, "node")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if err := v.SetProperty(node, name, props[name]); err != nil {
			writeError(w, err)
			return
		}
	}
	item, _ := v.Item(node)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.viewers[id]
	delete(s.viewers, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "graph %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// viewer resolves the {id} parameter, writing a 404 when it is unknown.
func (s *Server) viewer(w http.ResponseWriter, r *http.Request) (*viewer.Viewer, bool) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	v, ok := s.viewers[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "graph %q not found", id))
	}
	return v, ok
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Code: code, Message: errors.UserMessage(err)})
}
