package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
)

// RawItem is one comment as returned by the API, normalized across
// commentThreads and comments responses.
type RawItem struct {
	ID              string
	ParentID        string
	VideoID         string
	Author          string
	AuthorChannelID string
	Text            string
	LikeCount       int
	ReplyCount      int
	PublishedAt     string
	UpdatedAt       string
}

// Page is one page of results. An empty NextPageToken means no further pages.
type Page struct {
	Items         []RawItem
	NextPageToken string
}

// PageFetcher abstracts the remote comment service.
type PageFetcher interface {
	// FetchThreads returns one page of top-level comments of a video.
	FetchThreads(ctx context.Context, videoID, pageToken string, pageSize int) (Page, error)
	// FetchReplies returns the first page of replies to a top-level comment.
	FetchReplies(ctx context.Context, parentID string, pageSize int) (Page, error)
}

const (
	opThreads  = "commentThreads"
	opComments = "comments"

	maxResponseBytes = 8 << 20
)

// DataAPIFetcher implements PageFetcher against the YouTube Data API v3.
// Quota errors on the primary key are retried once with the fallback key.
type DataAPIFetcher struct {
	baseURL string
	keys    []string
	client  *http.Client
	limiter *rate.Limiter
	retry   engine.RetryConfig
}

// FetcherOption configures a DataAPIFetcher.
type FetcherOption func(*DataAPIFetcher)

// WithBaseURL points the fetcher at another API root (tests, proxies).
func WithBaseURL(base string) FetcherOption {
	return func(f *DataAPIFetcher) {
		if base != "" {
			f.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithFallbackKey adds a second key used when the first one runs out of quota.
func WithFallbackKey(key string) FetcherOption {
	return func(f *DataAPIFetcher) {
		if key != "" && key != f.keys[0] {
			f.keys = append(f.keys, key)
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *DataAPIFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithRate paces requests to rps per second. rps <= 0 disables pacing.
func WithRate(rps float64) FetcherOption {
	return func(f *DataAPIFetcher) {
		f.limiter = newLimiter(rps)
	}
}

// WithRetry overrides the retry policy for transient HTTP failures.
func WithRetry(rc engine.RetryConfig) FetcherOption {
	return func(f *DataAPIFetcher) { f.retry = rc }
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// NewDataAPIFetcher creates a fetcher for the given API key.
func NewDataAPIFetcher(apiKey string, opts ...FetcherOption) (*DataAPIFetcher, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, &ConfigError{Field: "api_key", Reason: "YouTube Data API key is required"}
	}
	f := &DataAPIFetcher{
		baseURL: engine.DefaultYouTubeAPIBase,
		keys:    []string{apiKey},
		client:  http.DefaultClient,
		limiter: newLimiter(0),
		retry:   engine.DefaultRetryConfig,
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// NewFetcherFromConfig builds a fetcher from the engine configuration.
func NewFetcherFromConfig() (*DataAPIFetcher, error) {
	c := engine.Cfg
	return NewDataAPIFetcher(c.YouTubeAPIKey,
		WithFallbackKey(c.YouTubeAPIKeyFallback),
		WithBaseURL(c.YouTubeAPIBase),
		WithHTTPClient(c.HTTPClient),
		WithRate(c.RequestsPerSecond),
	)
}

// FetchThreads implements PageFetcher.
func (f *DataAPIFetcher) FetchThreads(ctx context.Context, videoID, pageToken string, pageSize int) (Page, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("textFormat", "html")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, err := f.get(ctx, opThreads, videoID, "/commentThreads", params)
	if err != nil {
		return Page{}, err
	}
	var resp apiThreadList
	if err := json.Unmarshal(body, &resp); err != nil {
		return Page{}, &TransportError{Op: opThreads, ID: videoID, Err: fmt.Errorf("decode: %w", err)}
	}

	page := Page{NextPageToken: resp.NextPageToken, Items: make([]RawItem, 0, len(resp.Items))}
	for _, t := range resp.Items {
		it := t.Snippet.TopLevelComment.toItem()
		if it.ID == "" {
			it.ID = t.ID
		}
		if it.VideoID == "" {
			it.VideoID = videoID
		}
		it.ReplyCount = t.Snippet.TotalReplyCount
		page.Items = append(page.Items, it)
	}
	return page, nil
}

// FetchReplies implements PageFetcher.
func (f *DataAPIFetcher) FetchReplies(ctx context.Context, parentID string, pageSize int) (Page, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("parentId", parentID)
	params.Set("maxResults", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("textFormat", "html")

	body, err := f.get(ctx, opComments, parentID, "/comments", params)
	if err != nil {
		return Page{}, err
	}
	var resp apiCommentList
	if err := json.Unmarshal(body, &resp); err != nil {
		return Page{}, &TransportError{Op: opComments, ID: parentID, Err: fmt.Errorf("decode: %w", err)}
	}

	page := Page{NextPageToken: resp.NextPageToken, Items: make([]RawItem, 0, len(resp.Items))}
	for _, c := range resp.Items {
		page.Items = append(page.Items, c.toItem())
	}
	return page, nil
}

// get performs one API call, moving to the fallback key on quota errors.
func (f *DataAPIFetcher) get(ctx context.Context, op, id, path string, params url.Values) ([]byte, error) {
	var lastErr error
	for i, key := range f.keys {
		body, err := f.do(ctx, op, id, path, params, key)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var te *TransportError
		if !errors.As(err, &te) || !te.QuotaExceeded() || i == len(f.keys)-1 {
			break
		}
		slog.Warn("youtube api quota exhausted, trying fallback key",
			slog.String("op", op), slog.String("id", id))
	}
	return nil, lastErr
}

func (f *DataAPIFetcher) do(ctx context.Context, op, id, path string, params url.Values, key string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, transportFailure(op, id, err)
	}

	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", key)
	apiURL := f.baseURL + path + "?" + q.Encode()

	engine.AddQuotaUnits(1)
	resp, err := engine.RetryHTTP(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return f.client.Do(req)
	})
	if err != nil {
		engine.IncrFetchErrors()
		return nil, transportFailure(op, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		engine.IncrFetchErrors()
		return nil, transportFailure(op, id, err)
	}
	if resp.StatusCode != http.StatusOK {
		engine.IncrFetchErrors()
		return nil, classifyAPIError(op, id, resp.StatusCode, body)
	}
	return body, nil
}

func clampPageSize(n int) int {
	if n <= 0 || n > 100 {
		return 100
	}
	return n
}

// --- wire types ---

type apiThreadList struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			VideoID         string     `json:"videoId"`
			TopLevelComment apiComment `json:"topLevelComment"`
			TotalReplyCount int        `json:"totalReplyCount"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiCommentList struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []apiComment `json:"items"`
}

type apiComment struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID           string `json:"videoId"`
		ParentID          string `json:"parentId"`
		TextDisplay       string `json:"textDisplay"`
		TextOriginal      string `json:"textOriginal"`
		AuthorDisplayName string `json:"authorDisplayName"`
		AuthorChannelID   struct {
			Value string `json:"value"`
		} `json:"authorChannelId"`
		LikeCount   int    `json:"likeCount"`
		PublishedAt string `json:"publishedAt"`
		UpdatedAt   string `json:"updatedAt"`
	} `json:"snippet"`
}

// toItem prefers the author's original text; textDisplay is HTML.
func (c apiComment) toItem() RawItem {
	s := c.Snippet
	text := s.TextOriginal
	if text == "" {
		text = engine.HTMLToText(s.TextDisplay)
	}
	return RawItem{
		ID:              c.ID,
		ParentID:        s.ParentID,
		VideoID:         s.VideoID,
		Author:          s.AuthorDisplayName,
		AuthorChannelID: s.AuthorChannelID.Value,
		Text:            text,
		LikeCount:       s.LikeCount,
		PublishedAt:     s.PublishedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
