package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ThreadPageRequests atomic.Int64
	ReplyRequests      atomic.Int64
	FetchErrors        atomic.Int64
	QuotaUnits         atomic.Int64
	CommentsCollected  atomic.Int64
	RepliesCollected   atomic.Int64
	VideosCollected    atomic.Int64
	NetworksBuilt      atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"youtube_thread_page_requests", "youtube_reply_requests", "youtube_fetch_errors",
	"youtube_quota_units",
	"comments_collected", "replies_collected", "videos_collected",
	"networks_built",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"youtube_thread_page_requests": metrics.ThreadPageRequests.Load(),
		"youtube_reply_requests":       metrics.ReplyRequests.Load(),
		"youtube_fetch_errors":         metrics.FetchErrors.Load(),
		"youtube_quota_units":          metrics.QuotaUnits.Load(),
		"comments_collected":           metrics.CommentsCollected.Load(),
		"replies_collected":            metrics.RepliesCollected.Load(),
		"videos_collected":             metrics.VideosCollected.Load(),
		"networks_built":               metrics.NetworksBuilt.Load(),
		"cache_hits":                   hits,
		"cache_misses":                 misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the youtube sub-package.
func IncrThreadPageRequests() { metrics.ThreadPageRequests.Add(1) }
func IncrReplyRequests()      { metrics.ReplyRequests.Add(1) }
func IncrFetchErrors()        { metrics.FetchErrors.Add(1) }
func IncrVideosCollected()    { metrics.VideosCollected.Add(1) }

// AddQuotaUnits records Data API quota spent. Bookkeeping only, nothing is throttled on it.
func AddQuotaUnits(n int) { metrics.QuotaUnits.Add(int64(n)) }

// AddCollected records harvested top-level comments and replies.
func AddCollected(comments, replies int) {
	metrics.CommentsCollected.Add(int64(comments))
	metrics.RepliesCollected.Add(int64(replies))
}

// Incrementor for the network sub-package.
func IncrNetworksBuilt() { metrics.NetworksBuilt.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 30*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
