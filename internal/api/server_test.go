package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/talgya/hexpath/internal/engine"
	"github.com/talgya/hexpath/internal/hexgrid"
	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/terrain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tiles := terrain.NewMap(5)
	for _, c := range hexgrid.InRange(hexgrid.HexCoord{}, 5) {
		tiles.SetTile(c, true)
	}

	svc := nav.NewService(nav.DefaultConfig())
	svc.Initialize(tiles)

	return &Server{
		Svc:      svc,
		Eng:      engine.NewEngine(),
		Tiles:    tiles,
		Port:     0,
		AdminKey: "secret",
	}
}

func TestHandlePath(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/path?from_q=0&from_r=0&to_q=2&to_r=0", nil)
	rec := httptest.NewRecorder()
	s.handlePath(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		RequestID string             `json:"request_id"`
		Path      []hexgrid.HexCoord `json:"path"`
		Length    int                `json:"length"`
		Deferred  bool               `json:"deferred"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Length != 3 || resp.Deferred {
		t.Errorf("response = %+v, want 3-hex immediate path", resp)
	}
	if resp.RequestID == "" {
		t.Error("missing request_id")
	}
}

func TestHandlePathRejectsBadQuery(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/path?from_q=zero", nil)
	rec := httptest.NewRecorder()
	s.handlePath(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	var status map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["tiles"].(float64) != 91 {
		t.Errorf("tiles = %v, want 91", status["tiles"])
	}
	if _, ok := status["cache_size"]; !ok {
		t.Error("status missing cache_size")
	}
}

func TestHandleTilePostRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	handler := s.adminOnly(s.handleTile)

	body := `{"q": 1, "r": 0, "walkable": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated POST status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated POST status = %d, want 200", rec.Code)
	}
	if s.Tiles.IsWalkable(hexgrid.HexCoord{Q: 1, R: 0}) {
		t.Error("tile still walkable after admin POST")
	}
}

func TestHandleTilePostUnknownTile(t *testing.T) {
	s := newTestServer(t)

	body := `{"q": 50, "r": 50, "walkable": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleTile(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("requests under the limit were rejected")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit was allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("separate IP shares the exhausted bucket")
	}
	if rl.RetryAfter("1.2.3.4") <= 0 {
		t.Error("RetryAfter for exhausted bucket should be positive")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Errorf("clientIP = %q, want 10.0.0.1", got)
	}

	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	if got := clientIP(req); got != "9.9.9.9" {
		t.Errorf("clientIP with XFF = %q, want 9.9.9.9", got)
	}
}
