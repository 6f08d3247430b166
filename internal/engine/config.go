package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeAPIBase        string  // Data API v3 root, overridable for tests and proxies
	PageSize              int     // maxResults per commentThreads/comments request (1-100)
	MaxComments           int     // top-level budget per video; 0 = unbounded
	RequestsPerSecond     float64 // advisory pacing of Data API calls; 0 = unlimited
	Verbose               bool    // per-page progress at Info instead of Debug
	CacheMaxEntries       int
	CacheCleanupInterval  time.Duration
	SQLitePath            string // "" = collection store disabled
	DatabaseURL           string // "" = AGE graph store disabled
	AGEGraph              string
	HTTPClient            *http.Client
}

// DefaultYouTubeAPIBase is the public Data API v3 endpoint.
const DefaultYouTubeAPIBase = "https://www.googleapis.com/youtube/v3"

var cfg Config

// Cfg exposes the engine configuration for sub-packages (youtube, network, store).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	c.defaults()
	cfg = c
	Cfg = &cfg
}

// defaults fills in zero-value config fields.
func (c *Config) defaults() {
	if c.YouTubeAPIBase == "" {
		c.YouTubeAPIBase = DefaultYouTubeAPIBase
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		c.PageSize = 100
	}
	if c.MaxComments < 0 {
		c.MaxComments = 0
	}
	if c.AGEGraph == "" {
		c.AGEGraph = "youtube_actor_graph"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
}
