package youtube

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
)

// PageProgress describes one fetched page of top-level comments.
type PageProgress struct {
	VideoID     string `json:"video_id"`
	Page        int    `json:"page"`
	Items       int    `json:"items"`
	Accumulated int    `json:"accumulated"`
	HasNext     bool   `json:"has_next"`
}

// ThreadOptions controls CollectThreads.
type ThreadOptions struct {
	PageSize int
	Budget   int // top-level comments per video; <= 0 = unbounded
	Verbose  bool
	OnPage   func(PageProgress)
}

// CollectThreads pages through the top-level comments of one video until the
// service reports no more pages or the budget is reached. Items without an
// id or author are dropped before they count against the budget. A fetch
// error aborts the video and is returned unchanged.
func CollectThreads(ctx context.Context, f PageFetcher, videoID string, opts ThreadOptions) (PaginationState, error) {
	st := NewPaginationState(videoID)
	for !st.Done {
		if err := ctx.Err(); err != nil {
			return PaginationState{}, err
		}
		engine.IncrThreadPageRequests()
		page, err := f.FetchThreads(ctx, videoID, st.NextPageToken, opts.PageSize)
		if err != nil {
			return PaginationState{}, err
		}

		fetched := len(page.Items)
		var dropped int
		page.Items, dropped = identifiableItems(page.Items)
		if dropped > 0 {
			slog.Warn("skipping comments without id or author",
				slog.String("video", videoID), slog.Int("page", st.PageCount+1), slog.Int("dropped", dropped))
		}

		prevToken := st.NextPageToken
		st = st.Advance(page, opts.Budget)

		if !st.Done && st.NextPageToken == prevToken {
			slog.Warn("youtube returned a repeated page token, stopping",
				slog.String("video", videoID), slog.Int("page", st.PageCount))
			st.Done = true
		}
		if !st.Done && fetched < opts.PageSize {
			slog.Debug("short comment page",
				slog.String("video", videoID), slog.Int("items", fetched), slog.Int("page_size", opts.PageSize))
		}

		progress := PageProgress{
			VideoID:     videoID,
			Page:        st.PageCount,
			Items:       len(page.Items),
			Accumulated: len(st.Accumulated),
			HasNext:     !st.Done,
		}
		logProgress(opts.Verbose, "comment page fetched",
			slog.String("video", videoID),
			slog.Int("page", progress.Page),
			slog.Int("items", progress.Items),
			slog.Int("accumulated", progress.Accumulated))
		if opts.OnPage != nil {
			opts.OnPage(progress)
		}
	}
	return st, nil
}

// logProgress emits per-page progress at Info when verbose, Debug otherwise.
func logProgress(verbose bool, msg string, attrs ...any) {
	if verbose {
		slog.Info(msg, attrs...)
		return
	}
	slog.Debug(msg, attrs...)
}
