// Command hexpathd runs the hex-grid path service daemon: it generates or
// loads a tile grid, builds the search graph, and serves path queries over
// HTTP while a tick loop drives quota resets and deferred-request drains.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexpath/internal/api"
	"github.com/talgya/hexpath/internal/engine"
	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/persistence"
	"github.com/talgya/hexpath/internal/terrain"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("hexpathd — hex grid path service")

	seed := int64(42)
	if v := os.Getenv("HEXPATH_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}
	dbPath := "data/hexpath.db"
	apiPort := 8080
	if v := os.Getenv("HEXPATH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiPort = n
		}
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Tile Grid (load saved state, or generate from seed) ──────────
	var tiles *terrain.Map
	if db.HasTiles() {
		slog.Info("found saved tiles, loading...")
		tiles, err = db.LoadTiles()
		if err != nil {
			slog.Error("failed to load tiles", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved tiles, generating...", "seed", seed)
		cfg := terrain.DefaultGenConfig()
		cfg.Seed = seed
		tiles = terrain.Generate(cfg)
		if err := db.SaveTiles(tiles); err != nil {
			slog.Error("initial tile save failed", "error", err)
		}
	}
	slog.Info("tile grid ready",
		"tiles", humanize.Comma(int64(tiles.TileCount())),
		"walkable", humanize.Comma(int64(tiles.WalkableCount())),
	)

	// ── Path Service ──────────────────────────────────────────────────
	eng := engine.NewEngine()

	svc := nav.NewService(nav.DefaultConfig())
	svc.Observer = func(ev nav.Event) {
		if err := db.AppendEvent(eng.Tick, ev); err != nil {
			slog.Debug("event append failed", "error", err)
		}
	}
	svc.Initialize(tiles)

	// ── Tick Loop ─────────────────────────────────────────────────────
	eng.BeginTick = svc.BeginTick
	eng.OnReport = func(tick uint64) {
		slog.Info("service report",
			"tick", tick,
			"cache_size", svc.CacheSize(),
			"queue_size", svc.QueueSize(),
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("HEXPATH_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HEXPATH_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Svc:      svc,
		Eng:      eng,
		Tiles:    tiles,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nPath service ready: %s walkable tiles.\n", humanize.Comma(int64(tiles.WalkableCount())))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	eng.Run()

	if err := db.SaveMeta("last_tick", strconv.FormatUint(eng.Tick, 10)); err != nil {
		slog.Error("final meta save failed", "error", err)
	}
	fmt.Println("Stopped.")
}
