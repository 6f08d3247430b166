package ytserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
	"github.com/anatolykoptev/go_ytnet/internal/toolutil"
)

// maxTextRunes caps comment text in tool output.
const maxTextRunes = 500

func registerCollect(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_collect",
		Description: "Collect top-level comments and first-page replies for one or more YouTube videos via the Data API v3. Each record is attributed to the actor it addresses: a mentioned commenter, the parent comment's author, or the video itself (VIDEO:<id>). Accepts video ids or URLs. Set save=true to keep the collection in the local database.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CollectInput) (*mcp.CallToolResult, CollectOutput, error) {
		out, err := handleCollect(ctx, input)
		return nil, out, err
	})
}

func handleCollect(ctx context.Context, input CollectInput) (CollectOutput, error) {
	df, collectErr := collectDataframe(ctx, input.VideoIDs, input.MaxComments)
	if collectErr != nil && (df == nil || df.Len() == 0) {
		return CollectOutput{}, collectErr
	}

	out := collectOutput(df)
	if collectErr != nil {
		out.Partial = true
		out.Error = collectErr.Error()
	}
	if input.Save {
		if records == nil {
			return out, errors.New("save requested but SQLITE_PATH is not configured")
		}
		id, err := records.SaveCollection(ctx, df)
		if err != nil {
			return out, fmt.Errorf("save collection: %w", err)
		}
		out.CollectionID = id
	}
	return out, nil
}

// collectDataframe runs a cache-first collection. Partial results are
// returned with their error and never cached.
func collectDataframe(ctx context.Context, videoIDs []string, maxComments int) (*youtube.Dataframe, error) {
	ids, err := youtube.ParseVideoIDs(videoIDs)
	if err != nil {
		return nil, err
	}
	if maxComments <= 0 {
		maxComments = engine.Cfg.MaxComments
	}

	cacheKey := engine.CacheKey("youtube_collect", strings.Join(ids, ","), strconv.Itoa(maxComments), strconv.Itoa(engine.Cfg.PageSize))
	if df, ok := toolutil.CacheLoadJSON[youtube.Dataframe](ctx, cacheKey); ok {
		return &df, nil
	}

	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}
	collector := youtube.NewCollector(fetcher, youtube.CollectorConfig{
		PageSize:    engine.Cfg.PageSize,
		MaxComments: maxComments,
		Verbose:     engine.Cfg.Verbose,
	})

	var df *youtube.Dataframe
	err = engine.TrackOperation(ctx, "youtube_collect", func(ctx context.Context) error {
		var cerr error
		df, cerr = collector.Collect(ctx, ids)
		return cerr
	})
	if err != nil {
		return df, err
	}
	toolutil.CacheStoreJSON(ctx, cacheKey, *df)
	slog.Info("collection finished", slog.Int("videos", len(ids)), slog.Int("records", df.Len()))
	return df, nil
}

func collectOutput(df *youtube.Dataframe) CollectOutput {
	comments, replies := df.Counts()
	data := make([]youtube.CommentRecord, len(df.Records))
	for i, r := range df.Records {
		r.Text = engine.TruncateRunes(r.Text, maxTextRunes, "...")
		data[i] = r
	}
	return CollectOutput{
		RunID:    df.RunID,
		VideoIDs: df.VideoIDs(),
		Skipped:  df.Skipped,
		Records:  df.Len(),
		Comments: comments,
		Replies:  replies,
		Authors:  len(df.Authors()),
		Columns:  df.Columns(),
		Data:     data,
	}
}
