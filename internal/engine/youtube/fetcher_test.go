package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
)

const threadsJSON = `{
  "nextPageToken": "NEXT",
  "items": [{
    "id": "c1",
    "snippet": {
      "videoId": "v1",
      "totalReplyCount": 2,
      "topLevelComment": {
        "id": "c1",
        "snippet": {
          "videoId": "v1",
          "textDisplay": "first!",
          "textOriginal": "first!",
          "authorDisplayName": "alice",
          "authorChannelId": {"value": "UCalice"},
          "likeCount": 3,
          "publishedAt": "2024-01-01T00:00:00Z",
          "updatedAt": "2024-01-01T00:00:00Z"
        }
      }
    }
  }]
}`

const repliesJSON = `{
  "items": [{
    "id": "c1.r1",
    "snippet": {
      "parentId": "c1",
      "textDisplay": "thanks <b>@alice</b> &amp; all",
      "authorDisplayName": "bob",
      "likeCount": 0,
      "publishedAt": "2024-01-02T00:00:00Z"
    }
  }]
}`

func newTestFetcher(t *testing.T, h http.HandlerFunc, opts ...FetcherOption) *DataAPIFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]FetcherOption{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetry(engine.DefaultRetryConfig)}, opts...)
	f, err := NewDataAPIFetcher("KEY1", opts...)
	require.NoError(t, err)
	return f
}

func TestDataAPIFetcherThreads(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commentThreads", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "v1", q.Get("videoId"))
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "50", q.Get("maxResults"))
		assert.Equal(t, "TOKEN", q.Get("pageToken"))
		assert.Equal(t, "KEY1", q.Get("key"))
		assert.Equal(t, engine.UserAgentBot, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(threadsJSON))
	})

	page, err := f.FetchThreads(context.Background(), "v1", "TOKEN", 50)
	require.NoError(t, err)
	assert.Equal(t, "NEXT", page.NextPageToken)
	require.Len(t, page.Items, 1)
	it := page.Items[0]
	assert.Equal(t, "c1", it.ID)
	assert.Equal(t, "alice", it.Author)
	assert.Equal(t, "UCalice", it.AuthorChannelID)
	assert.Equal(t, "first!", it.Text)
	assert.Equal(t, 2, it.ReplyCount)
	assert.Equal(t, 3, it.LikeCount)
	assert.Equal(t, "v1", it.VideoID)
}

func TestDataAPIFetcherFirstPageOmitsToken(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, has := r.URL.Query()["pageToken"]
		assert.False(t, has)
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"), "out of range page size is clamped")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	page, err := f.FetchThreads(context.Background(), "v1", "", 500)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextPageToken)
}

func TestDataAPIFetcherReplies(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("parentId"))
		_, _ = w.Write([]byte(repliesJSON))
	})

	page, err := f.FetchReplies(context.Background(), "c1", 100)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	it := page.Items[0]
	assert.Equal(t, "c1.r1", it.ID)
	assert.Equal(t, "c1", it.ParentID)
	assert.Contains(t, it.Text, "@alice", "html body is converted when textOriginal is absent")
	assert.Contains(t, it.Text, "& all")
	assert.NotContains(t, it.Text, "<b>")
}

func TestDataAPIFetcherErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, te *TransportError)
	}{
		{"quota", 403, `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`,
			func(t *testing.T, te *TransportError) { assert.True(t, te.QuotaExceeded()) }},
		{"bad key", 400, `{"error":{"code":400,"message":"API key not valid","errors":[{"reason":"keyInvalid"}]}}`,
			func(t *testing.T, te *TransportError) {
				assert.True(t, te.AuthFailed())
				assert.Equal(t, "API key not valid", te.Message)
			}},
		{"comments disabled", 403, `{"error":{"code":403,"errors":[{"reason":"commentsDisabled"}]}}`,
			func(t *testing.T, te *TransportError) { assert.True(t, te.CommentsDisabled()) }},
		{"not found", 404, `{"error":{"code":404,"errors":[{"reason":"videoNotFound"}]}}`,
			func(t *testing.T, te *TransportError) { assert.True(t, te.NotFound()) }},
		{"non json body", 400, `oops`,
			func(t *testing.T, te *TransportError) {
				assert.Equal(t, "oops", te.Message)
				assert.Empty(t, te.Reason)
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchThreads(context.Background(), "v1", "", 100)
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.Status)
			assert.Equal(t, opThreads, te.Op)
			assert.Equal(t, "v1", te.ID)
			assert.NotContains(t, err.Error(), "KEY1")
			tt.check(t, te)
		})
	}
}

func TestDataAPIFetcherFallbackKey(t *testing.T) {
	var keys []string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		keys = append(keys, key)
		if key == "KEY1" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"errors":[{"reason":"quotaExceeded"}]}}`))
			return
		}
		_, _ = w.Write([]byte(threadsJSON))
	}, WithFallbackKey("KEY2"))

	page, err := f.FetchThreads(context.Background(), "v1", "", 100)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []string{"KEY1", "KEY2"}, keys)
}

func TestDataAPIFetcherNoFallbackOnOtherErrors(t *testing.T) {
	calls := 0
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"errors":[{"reason":"keyInvalid"}]}}`))
	}, WithFallbackKey("KEY2"))

	_, err := f.FetchThreads(context.Background(), "v1", "", 100)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDataAPIFetcherTransportFailureHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f, err := NewDataAPIFetcher("SECRETKEY", WithBaseURL(base))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.FetchThreads(ctx, "v1", "", 100)
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "SECRETKEY"))
}

func TestNewDataAPIFetcherRequiresKey(t *testing.T) {
	_, err := NewDataAPIFetcher("  ")
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "api_key", ce.Field)
}

func TestWithRatePacesRequests(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}, WithRate(1000))
	for range 3 {
		_, err := f.FetchReplies(context.Background(), "c1", 10)
		require.NoError(t, err)
	}
	assert.InDelta(t, 1000, float64(f.limiter.Limit()), 0.001)
}
