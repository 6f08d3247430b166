package youtube

import (
	"context"
	"fmt"
	"strconv"
)

// fakeFetcher serves canned pages. Thread pages are keyed by video id and
// addressed by token "", "p1", "p2", ...
type fakeFetcher struct {
	threads    map[string][]Page
	replies    map[string]Page
	threadErr  map[string]error
	replyErr   map[string]error
	threadReqs []string
	replyReqs  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		threads:   map[string][]Page{},
		replies:   map[string]Page{},
		threadErr: map[string]error{},
		replyErr:  map[string]error{},
	}
}

func (f *fakeFetcher) FetchThreads(_ context.Context, videoID, pageToken string, _ int) (Page, error) {
	f.threadReqs = append(f.threadReqs, videoID+"#"+pageToken)
	if err := f.threadErr[videoID]; err != nil {
		return Page{}, err
	}
	idx := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken[1:])
		if err != nil {
			return Page{}, fmt.Errorf("bad token %q", pageToken)
		}
		idx = n
	}
	pages := f.threads[videoID]
	if idx >= len(pages) {
		return Page{}, nil
	}
	return pages[idx], nil
}

func (f *fakeFetcher) FetchReplies(_ context.Context, parentID string, _ int) (Page, error) {
	f.replyReqs = append(f.replyReqs, parentID)
	if err := f.replyErr[parentID]; err != nil {
		return Page{}, err
	}
	return f.replies[parentID], nil
}

// pagesOf splits items into pages of size n with chained tokens.
func pagesOf(n int, items ...RawItem) []Page {
	var pages []Page
	for i := 0; i < len(items); i += n {
		end := min(i+n, len(items))
		p := Page{Items: items[i:end]}
		if end < len(items) {
			p.NextPageToken = "p" + strconv.Itoa(len(pages)+1)
		}
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	return pages
}

func item(id, author, text string, replies int) RawItem {
	return RawItem{ID: id, Author: author, Text: text, ReplyCount: replies, PublishedAt: "2024-01-01T00:00:00Z"}
}

func numbered(prefix string, n int) []RawItem {
	out := make([]RawItem, n)
	for i := range out {
		out[i] = item(fmt.Sprintf("%s%d", prefix, i+1), fmt.Sprintf("user%d", i+1), "nice", 0)
	}
	return out
}
