package youtube

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// Resolver attributes each comment to the actor it is directed at.
//
// The candidate set is the list of authors seen in the record set. The first
// author in that list whose name occurs in a comment's text wins. Without a
// mention, a top-level comment is attributed to its video sink and a reply
// to the author of its parent. Anything else stays AttributionNone.
type Resolver struct {
	authors   []string
	prefilter *regexp.Regexp // nil: scan authors directly
}

// NewResolver compiles a resolver for the given author names.
// Empty names and duplicates are dropped; order is preserved. Names the
// regexp parser rejects (invalid UTF-8) disable the prefilter, and every
// text is then scanned author by author.
func NewResolver(authors []string) *Resolver {
	seen := make(map[string]bool, len(authors))
	r := &Resolver{}
	for _, a := range authors {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		r.authors = append(r.authors, a)
	}
	if len(r.authors) > 0 {
		quoted := make([]string, len(r.authors))
		for i, a := range r.authors {
			quoted[i] = regexp.QuoteMeta(a)
		}
		re, err := regexp.Compile(strings.Join(quoted, "|"))
		if err != nil {
			slog.Debug("mention prefilter disabled", slog.Any("error", err))
		} else {
			r.prefilter = re
		}
	}
	return r
}

// Authors returns the candidate list in match-priority order.
func (r *Resolver) Authors() []string { return slices.Clone(r.authors) }

// Mention returns the first candidate author named in text.
func (r *Resolver) Mention(text string) (string, bool) {
	if r.prefilter != nil && !r.prefilter.MatchString(text) {
		return "", false
	}
	for _, a := range r.authors {
		if strings.Contains(text, a) {
			return a, true
		}
	}
	return "", false
}

// Resolve returns a copy of records with Attribution recomputed.
// Incoming attribution values are ignored, so Resolve is idempotent.
func (r *Resolver) Resolve(records []CommentRecord) []CommentRecord {
	out := slices.Clone(records)

	parentAuthor := make(map[string]string)
	for _, rec := range out {
		if rec.IsReply() {
			continue
		}
		if _, ok := parentAuthor[rec.CommentID]; !ok {
			parentAuthor[rec.CommentID] = rec.Author
		}
	}

	for i := range out {
		rec := &out[i]
		rec.Attribution = AttributionNone
		if name, ok := r.Mention(rec.Text); ok {
			rec.Attribution = name
			continue
		}
		if !rec.IsReply() {
			rec.Attribution = VideoSink(rec.SourceID)
			continue
		}
		if author, ok := parentAuthor[rec.ParentID]; ok {
			rec.Attribution = author
		}
	}
	return out
}

// Resolve attributes records using their own authors as candidates.
func Resolve(records []CommentRecord) []CommentRecord {
	return NewResolver(AuthorsOf(records)).Resolve(records)
}
