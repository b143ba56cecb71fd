// Package server exposes growth simulations over HTTP for live viewing. Each
// simulation lives in an in-memory session registry; clients create a
// session, advance it tick by tick, and fetch the current curve as JSON or a
// rendered frame.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/DriesCruyskens/diffgrowth/growth"
	"github.com/DriesCruyskens/diffgrowth/render"
)

// maxStepsPerRequest bounds how much work a single tick request can demand.
const maxStepsPerRequest = 1000

// Config holds the server settings.
type Config struct {
	Port int
}

// session is one live simulation owned by the server. The simulation itself
// is single-threaded; the mutex serializes ticks and reads so concurrent
// requests never observe a half-finished tick.
type session struct {
	id        string
	sim       *growth.Simulation
	ticks     int
	createdAt time.Time
	mu        sync.Mutex
}

// Server hosts a registry of simulation sessions.
type Server struct {
	config   *Config
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates a server with an empty session registry.
func New(config *Config, logger *zap.Logger) *Server {
	return &Server{
		config:   config,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Start launches the web server on the configured port.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting server", zap.Int("port", s.config.Port))
	return server.ListenAndServe()
}

// Handler returns the route table. Split out from Start for testing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/simulations", s.handleCreate)
	mux.HandleFunc("/api/simulations/tick", s.handleTick)
	mux.HandleFunc("/api/simulations/points", s.handlePoints)
	mux.HandleFunc("/visualize", s.handleVisualize)
	return mux
}

// createRequest carries simulation parameters. Zero values fall back to the
// defaults that are known to produce good-looking growth.
type createRequest struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Radius  float64 `json:"radius"`
	Count   int     `json:"count"`

	Noisy          bool    `json:"noisy"`
	NoiseAmplitude float64 `json:"noise_amplitude"`
	NoiseFrequency float64 `json:"noise_frequency"`
	Seed           int64   `json:"seed"`

	MaxForce                float64 `json:"max_force"`
	MaxSpeed                float64 `json:"max_speed"`
	DesiredSeparation       float64 `json:"desired_separation"`
	SeparationCohesionRatio float64 `json:"separation_cohesion_ratio"`
	MaxEdgeLength           float64 `json:"max_edge_length"`
}

func (r *createRequest) applyDefaults() {
	if r.Radius <= 0 {
		r.Radius = 10
	}
	if r.Count < 2 {
		r.Count = 10
	}
	if r.NoiseAmplitude <= 0 {
		r.NoiseAmplitude = r.Radius / 4
	}
	if r.NoiseFrequency <= 0 {
		r.NoiseFrequency = 1.5
	}
	if r.MaxForce <= 0 {
		r.MaxForce = 1.5
	}
	if r.MaxSpeed <= 0 {
		r.MaxSpeed = 1.0
	}
	if r.DesiredSeparation <= 0 {
		r.DesiredSeparation = 14.0
	}
	if r.SeparationCohesionRatio <= 0 {
		r.SeparationCohesionRatio = 1.1
	}
	if r.MaxEdgeLength <= 0 {
		r.MaxEdgeLength = 5.0
	}
}

// handleCreate registers a new simulation session
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createRequest
	if r.Body != nil {
		// An empty body means "all defaults".
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Error parsing request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	req.applyDefaults()

	var points []r2.Vec
	if req.Noisy {
		points = growth.PointsOnNoisyCircle(req.OriginX, req.OriginY, req.Radius,
			req.NoiseAmplitude, req.NoiseFrequency, req.Count, req.Seed)
	} else {
		points = growth.PointsOnCircle(req.OriginX, req.OriginY, req.Radius, req.Count)
	}

	sess := &session{
		id: uuid.New().String(),
		sim: growth.New(points, req.MaxForce, req.MaxSpeed, req.DesiredSeparation,
			req.SeparationCohesionRatio, req.MaxEdgeLength),
		createdAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("created simulation",
		zap.String("id", sess.id),
		zap.Int("starting_points", len(points)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":    sess.id,
		"nodes": sess.sim.Len(),
	})
}

// handleTick advances a session by one or more iterations
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	steps := 1
	if v := r.URL.Query().Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxStepsPerRequest {
			http.Error(w, fmt.Sprintf("steps must be between 1 and %d", maxStepsPerRequest), http.StatusBadRequest)
			return
		}
		steps = n
	}

	sess.mu.Lock()
	for i := 0; i < steps; i++ {
		sess.sim.Tick()
	}
	sess.ticks += steps
	ticks, nodes := sess.ticks, sess.sim.Len()
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":    sess.id,
		"ticks": ticks,
		"nodes": nodes,
	})
}

// handlePoints returns the current curve as JSON
func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	points := sess.sim.Points()
	ticks := sess.ticks
	sess.mu.Unlock()

	type jsonPoint struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	out := struct {
		ID     string      `json:"id"`
		Ticks  int         `json:"ticks"`
		Nodes  int         `json:"nodes"`
		Points []jsonPoint `json:"points"`
	}{ID: sess.id, Ticks: ticks, Nodes: len(points), Points: make([]jsonPoint, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, jsonPoint{X: p.X, Y: p.Y})
	}

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(out)
}

// handleVisualize renders the current curve of a session
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}

	renderer, err := render.GetRenderer(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	options := render.NewDefaultOptions(format)
	if v := r.URL.Query().Get("width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			options.Width = float64(n)
		}
	}
	if v := r.URL.Query().Get("height"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			options.Height = float64(n)
		}
	}

	sess.mu.Lock()
	points := sess.sim.Points()
	sess.mu.Unlock()

	output, err := renderer.Render(points, options)
	if err != nil {
		s.logger.Error("rendering failed", zap.String("id", sess.id), zap.Error(err))
		http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "ascii":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case "png":
		w.Header().Set("Content-Type", "image/png")
	}
	w.Write(output)
}

// lookup resolves the session named by the id query parameter, writing the
// error response itself when the session cannot be found.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing simulation ID", http.StatusBadRequest)
		return nil, false
	}

	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()
	if !exists {
		http.Error(w, "Simulation not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
