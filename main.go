// go_ytnet: YouTube comment collection and actor network MCP server.
//
// Exposes four MCP tools: youtube_collect, youtube_actor_network,
// youtube_activity_network, youtube_collections.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
	"github.com/anatolykoptev/go_ytnet/internal/engine/store"
	"github.com/anatolykoptev/go_ytnet/internal/ytserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}
	mcpPort := env.Str("MCP_PORT", "8893")
	initEngine()

	slog.Info("starting go_ytnet",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytnet",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", ytserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytnet",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeAPIBase:        env.Str("YOUTUBE_API_BASE", engine.DefaultYouTubeAPIBase),
		PageSize:              env.Int("YOUTUBE_PAGE_SIZE", 100),
		MaxComments:           env.Int("YOUTUBE_MAX_COMMENTS", 0),
		RequestsPerSecond:     env.Float("YOUTUBE_RPS", 0),
		Verbose:               parseBool(env.Str("VERBOSE", "")),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		SQLitePath:            env.Str("SQLITE_PATH", ""),
		DatabaseURL:           env.Str("DATABASE_URL", ""),
		AGEGraph:              env.Str("AGE_GRAPH", "youtube_actor_graph"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
	if c.YouTubeAPIKey == "" {
		slog.Warn("YOUTUBE_API_KEY not set, collection tools will fail until configured")
	}

	engine.Init(c)

	// Collection store (SQLite)
	if c.SQLitePath != "" {
		rs, err := store.OpenRecordStore(c.SQLitePath)
		if err != nil {
			slog.Warn("record store init failed", slog.Any("error", err))
		} else {
			ytserver.SetRecordStore(rs)
			slog.Info("record store initialized", slog.String("path", c.SQLitePath))
		}
	}

	// Network graph store (PostgreSQL + AGE)
	if c.DatabaseURL != "" {
		gdb, err := store.ConnectGraphDB(context.Background(), c.DatabaseURL, c.AGEGraph)
		if err != nil {
			slog.Warn("graph DB init failed", slog.Any("error", err))
		} else {
			ytserver.SetGraphDB(gdb)
			slog.Info("graph DB initialized")
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
