package youtube

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
)

// CollectorConfig controls a collection run.
type CollectorConfig struct {
	PageSize    int  // maxResults per request, 1-100
	MaxComments int  // top-level comments per video; <= 0 = unbounded
	Verbose     bool // per-page progress at Info instead of Debug
	OnPage      func(PageProgress)
}

// Collector harvests comments and replies for a list of videos.
type Collector struct {
	fetcher PageFetcher
	cfg     CollectorConfig
}

// NewCollector creates a Collector. PageSize outside 1-100 becomes 100.
func NewCollector(f PageFetcher, cfg CollectorConfig) *Collector {
	cfg.PageSize = clampPageSize(cfg.PageSize)
	if cfg.MaxComments < 0 {
		cfg.MaxComments = 0
	}
	return &Collector{fetcher: f, cfg: cfg}
}

// Collect harvests every video in order and returns the attributed record set.
//
// Videos are processed one at a time. When a video fails, Collect stops and
// returns the records of the videos completed so far together with the error.
// A video with comments disabled counts as zero comments; its id is listed
// in Dataframe.Skipped. If no video yields a single record, the error is
// ErrEmptyResult.
//
// The returned Dataframe carries the run id that also tags the run's logs.
func (c *Collector) Collect(ctx context.Context, videoIDs []string) (*Dataframe, error) {
	if c.fetcher == nil {
		return nil, &ConfigError{Field: "fetcher", Reason: "no page fetcher configured"}
	}
	ids, err := ParseVideoIDs(videoIDs)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := slog.With(slog.String("run", runID))
	frame := func(records []CommentRecord, skipped []string) *Dataframe {
		df := NewDataframe(Resolve(records))
		df.RunID = runID
		df.Skipped = skipped
		return df
	}
	log.Info("collection started", slog.Int("videos", len(ids)), slog.Int("max_comments", c.cfg.MaxComments))

	var (
		records []CommentRecord
		skipped []string
	)
	seen := make(map[string]bool)
	for _, id := range ids {
		recs, err := c.collectVideo(ctx, log, id)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && te.CommentsDisabled() {
				log.Warn("comments disabled, skipping video", slog.String("video", id))
				skipped = append(skipped, id)
				continue
			}
			log.Warn("video collection failed",
				slog.String("video", id),
				slog.Int("completed_records", len(records)),
				slog.Any("error", err))
			return frame(records, skipped), err
		}
		for _, r := range recs {
			if seen[r.CommentID] {
				log.Warn("duplicate comment id, keeping first",
					slog.String("comment", r.CommentID), slog.String("video", id))
				continue
			}
			seen[r.CommentID] = true
			records = append(records, r)
		}
	}

	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	return frame(records, skipped), nil
}

func (c *Collector) collectVideo(ctx context.Context, log *slog.Logger, videoID string) ([]CommentRecord, error) {
	st, err := CollectThreads(ctx, c.fetcher, videoID, ThreadOptions{
		PageSize: c.cfg.PageSize,
		Budget:   c.cfg.MaxComments,
		Verbose:  c.cfg.Verbose,
		OnPage:   c.cfg.OnPage,
	})
	if err != nil {
		return nil, err
	}

	top := make([]CommentRecord, 0, len(st.Accumulated))
	for _, it := range st.Accumulated {
		rec, ok := newRecord(it, videoID, NoParent)
		if !ok {
			continue
		}
		top = append(top, rec)
	}

	replies, err := FetchReplies(ctx, c.fetcher, top, c.cfg.PageSize, c.cfg.Verbose)
	if err != nil {
		return nil, err
	}

	engine.AddCollected(len(top), len(replies))
	engine.IncrVideosCollected()
	log.Info("video collected",
		slog.String("video", videoID),
		slog.Int("comments", len(top)),
		slog.Int("replies", len(replies)),
		slog.Int("reported", st.Reported()),
		slog.Int("pages", st.PageCount))

	return append(top, replies...), nil
}
