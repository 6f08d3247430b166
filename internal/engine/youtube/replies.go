package youtube

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
)

// FetchReplies fetches one page of replies for every parent with a non-zero
// reply count. Replies beyond the first page are not collected. Each reply
// carries the queried parent id and the parent's source id.
func FetchReplies(ctx context.Context, f PageFetcher, parents []CommentRecord, pageSize int, verbose bool) ([]CommentRecord, error) {
	var out []CommentRecord
	for _, p := range parents {
		if p.ReplyCount <= 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		engine.IncrReplyRequests()
		page, err := f.FetchReplies(ctx, p.CommentID, pageSize)
		if err != nil {
			return nil, err
		}
		kept := 0
		for _, it := range page.Items {
			rec, ok := newRecord(it, p.SourceID, p.CommentID)
			if !ok {
				slog.Warn("skipping reply without id or author",
					slog.String("parent", p.CommentID), slog.String("id", it.ID))
				continue
			}
			out = append(out, rec)
			kept++
		}
		if page.NextPageToken != "" || p.ReplyCount > kept {
			slog.Debug("replies truncated to first page",
				slog.String("parent", p.CommentID),
				slog.Int("reported", p.ReplyCount),
				slog.Int("fetched", kept))
		}
		logProgress(verbose, "reply page fetched",
			slog.String("video", p.SourceID),
			slog.String("parent", p.CommentID),
			slog.Int("items", kept))
	}
	return out, nil
}
