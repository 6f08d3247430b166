package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id, parent, author, text string) CommentRecord {
	return CommentRecord{CommentID: id, ParentID: parent, Author: author, Text: text, SourceID: "v1", Attribution: AttributionNone}
}

func TestResolve(t *testing.T) {
	records := []CommentRecord{
		rec("c1", NoParent, "alice", "first!"),
		rec("c2", NoParent, "carol", "hello everyone"),
		rec("r1", "c1", "bob", "thanks @alice"),
		rec("r2", "c1", "dave", "+1"),
		rec("r3", "c9", "erin", "orphan"),
		rec("c3", NoParent, "frank", "carol said it better"),
	}
	got := Resolve(records)

	want := map[string]string{
		"c1": "VIDEO:v1",
		"c2": "VIDEO:v1",
		"r1": "alice",
		"r2": "alice",
		"r3": AttributionNone,
		"c3": "carol",
	}
	for _, r := range got {
		assert.Equal(t, want[r.CommentID], r.Attribution, "record %s", r.CommentID)
	}
}

func TestResolveIdempotent(t *testing.T) {
	records := []CommentRecord{
		rec("c1", NoParent, "alice", "first!"),
		rec("r1", "c1", "bob", "thanks @alice"),
		rec("r2", "c1", "carol", "@bob no"),
	}
	once := Resolve(records)
	twice := Resolve(once)
	assert.Equal(t, once, twice)

	stale := Resolve(records)
	stale[1].Attribution = "someone-else"
	assert.Equal(t, once, Resolve(stale), "incoming attribution is ignored")
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	records := []CommentRecord{rec("c1", NoParent, "alice", "hi")}
	_ = Resolve(records)
	assert.Equal(t, AttributionNone, records[0].Attribution)
}

func TestResolverTieBreakIsAuthorOrder(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		text    string
		want    string
	}{
		{"earlier author wins over earlier position", []string{"bob", "alice"}, "alice and bob", "bob"},
		{"prefix name listed first", []string{"al", "alice"}, "hi alice", "al"},
		{"longer name listed first", []string{"alice", "al"}, "hi alice", "alice"},
		{"regex metacharacters are literal", []string{"a.b", "c+d"}, "ping c+d", "c+d"},
		{"metacharacter does not match wildcard", []string{"a.b"}, "axb", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewResolver(tt.authors).Mention(tt.text)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewResolverDedupes(t *testing.T) {
	r := NewResolver([]string{"bob", "", "alice", "bob"})
	assert.Equal(t, []string{"bob", "alice"}, r.Authors())

	_, ok := NewResolver(nil).Mention("anything")
	assert.False(t, ok)
}

func TestResolveSelfMention(t *testing.T) {
	got := Resolve([]CommentRecord{rec("c1", NoParent, "alice", "alice here")})
	assert.Equal(t, "alice", got[0].Attribution)
}

func TestResolveInvalidUTF8Author(t *testing.T) {
	records := []CommentRecord{
		rec("c1", NoParent, "bad\xffname", "hello"),
		rec("r1", "c1", "bob", "agreed"),
		rec("r2", "c1", "carol", "ping bad\xffname and bob"),
	}
	var got []CommentRecord
	assert.NotPanics(t, func() { got = Resolve(records) })

	assert.Equal(t, "VIDEO:v1", got[0].Attribution)
	assert.Equal(t, "bad\xffname", got[1].Attribution, "parent fallback still applies")
	assert.Equal(t, "bad\xffname", got[2].Attribution, "mentions found without the prefilter")

	name, ok := NewResolver([]string{"bad\xffname"}).Mention("no names here")
	assert.False(t, ok)
	assert.Empty(t, name)
}
