package network

import (
	"github.com/anatolykoptev/go_ytnet/internal/engine"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

// BuildActivityNetwork builds the comment-level network: every comment is a
// node, top-level comments point at their video and replies at their parent.
// A parent missing from the record set still gets a node, without author.
func BuildActivityNetwork(records []youtube.CommentRecord, opts ...Option) (*Graph, error) {
	if len(records) == 0 {
		return nil, ErrNoConversation
	}
	o := buildOptions(opts)

	nodes := newNodeSet()
	g := &Graph{
		Class: []string{"network", "activity", youtube.Platform},
		Type:  youtube.Platform,
		Edges: make([]Edge, 0, len(records)),
	}
	for _, r := range records {
		nodes.add(r.CommentID, NodeComment, r.Author)
		nodes.fill(r.CommentID, r.Author)

		e := Edge{
			From:        r.CommentID,
			Label:       r.CommentID,
			SourceID:    r.SourceID,
			PublishTime: r.PublishTime,
		}
		if r.IsReply() {
			nodes.add(r.ParentID, NodeComment, "")
			e.To, e.Kind = r.ParentID, EdgeReply
		} else {
			sink := youtube.VideoSink(r.SourceID)
			nodes.add(sink, NodeVideo, "")
			e.To, e.Kind = sink, EdgeComment
		}
		if o.withText {
			e.Text = r.Text
		}
		g.Edges = append(g.Edges, e)
	}
	g.Nodes = nodes.nodes
	engine.IncrNetworksBuilt()
	return g, nil
}
