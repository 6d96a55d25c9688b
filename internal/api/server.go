// Package api provides the HTTP surface for the path service.
// GET endpoints are public (read-only observation plus path queries).
// POST endpoints require a bearer token (terrain control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/engine"
	"github.com/talgya/hexpath/internal/hexgrid"
	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/persistence"
	"github.com/talgya/hexpath/internal/terrain"
)

// Server serves path queries and service state over HTTP.
type Server struct {
	Svc      *nav.Service
	Eng      *engine.Engine
	Tiles    *terrain.Map
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	pathLimiter := NewRateLimiter(600, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/path", RateLimitMiddleware(pathLimiter, s.handlePath))
	mux.HandleFunc("/api/v1/path/exists", s.handlePathExists)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Tile endpoints: GET is public, POST requires the admin token.
	mux.HandleFunc("/api/v1/tile", s.adminOnly(s.handleTile))

	// Admin endpoints.
	mux.HandleFunc("/api/v1/rebuild", s.adminOnly(s.handleRebuild))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no HEXPATH_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	vertices, edges := s.Svc.GraphStats()
	status := map[string]any{
		"tick":          s.Eng.Tick,
		"speed":         s.Eng.Speed,
		"running":       s.Eng.Running,
		"tiles":         s.Tiles.TileCount(),
		"walkable":      s.Tiles.WalkableCount(),
		"vertices":      vertices,
		"edges":         edges,
		"cache_size":    s.Svc.CacheSize(),
		"queue_size":    s.Svc.QueueSize(),
		"tick_requests": s.Svc.TickRequestCount(),
	}
	writeJSON(w, status)
}

// handlePath answers GET /api/v1/path?from_q=&from_r=&to_q=&to_r= through
// the throttled pipeline. A deferred response carries an empty path; the
// client decides whether to retry.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseEndpoints(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.Svc.RequestPath(from, to)
	writeJSON(w, map[string]any{
		"request_id": uuid.NewString(),
		"from":       from,
		"to":         to,
		"path":       res.Path,
		"length":     len(res.Path),
		"deferred":   res.Deferred,
	})
}

// handlePathExists answers reachability probes without touching the cache
// or the tick quota.
func (s *Server) handlePathExists(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseEndpoints(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"from":   from,
		"to":     to,
		"exists": s.Svc.PathExists(from, to),
	})
}

// handleTile serves tile state on GET and mutates walkability on POST.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c, err := parseHex(r, "q", "r")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{
			"coord":    c,
			"exists":   s.Tiles.HasTile(c),
			"walkable": s.Tiles.IsWalkable(c),
		})

	case http.MethodPost:
		var req struct {
			Q        int  `json:"q"`
			R        int  `json:"r"`
			Walkable bool `json:"walkable"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		c := hexgrid.HexCoord{Q: req.Q, R: req.R}
		if !s.Tiles.SetWalkable(c, req.Walkable) {
			http.Error(w, "no such tile", http.StatusNotFound)
			return
		}
		s.Svc.UpdateHex(c)
		if s.DB != nil {
			if err := s.DB.UpdateTile(c, req.Walkable); err != nil {
				slog.Error("tile persist failed", "coord", c, "error", err)
			}
		}
		slog.Info("tile updated", "coord", c, "walkable", req.Walkable)
		writeJSON(w, map[string]any{"coord": c, "walkable": req.Walkable})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEvents returns the most recent service notifications.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []any{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		http.Error(w, "event query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

// handleRebuild triggers a full graph rebuild (POST, admin).
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Svc.BuildGraph()
	vertices, edges := s.Svc.GraphStats()
	writeJSON(w, map[string]any{"vertices": vertices, "edges": edges})
}

// handleSpeed adjusts the tick rate (POST, admin).
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed must be in [0, 100]", http.StatusBadRequest)
		return
	}
	s.Eng.Speed = req.Speed
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}

func parseEndpoints(r *http.Request) (from, to hexgrid.HexCoord, err error) {
	from, err = parseHex(r, "from_q", "from_r")
	if err != nil {
		return from, to, err
	}
	to, err = parseHex(r, "to_q", "to_r")
	return from, to, err
}

func parseHex(r *http.Request, qKey, rKey string) (hexgrid.HexCoord, error) {
	q, err := strconv.Atoi(r.URL.Query().Get(qKey))
	if err != nil {
		return hexgrid.HexCoord{}, fmt.Errorf("missing or invalid %s", qKey)
	}
	rr, err := strconv.Atoi(r.URL.Query().Get(rKey))
	if err != nil {
		return hexgrid.HexCoord{}, fmt.Errorf("missing or invalid %s", rKey)
	}
	return hexgrid.HexCoord{Q: q, R: rr}, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
