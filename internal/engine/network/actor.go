package network

import (
	"log/slog"

	"github.com/anatolykoptev/go_ytnet/internal/engine"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

// BuildActorNetwork builds the actor network of an attributed record set.
//
// Every record contributes one edge from its author to its attribution,
// labeled with the comment id. Nodes are the distinct authors and targets
// in first-seen order. Records still attributed AttributionNone point at a
// single AttributionNone node; their ids are also listed in Unattributed.
func BuildActorNetwork(records []youtube.CommentRecord, opts ...Option) (*Graph, error) {
	if len(records) == 0 {
		return nil, ErrNoConversation
	}
	o := buildOptions(opts)

	parentAuthor := make(map[string]string)
	for _, r := range records {
		if r.IsReply() {
			continue
		}
		if _, ok := parentAuthor[r.CommentID]; !ok {
			parentAuthor[r.CommentID] = r.Author
		}
	}

	nodes := newNodeSet()
	g := &Graph{
		Class: []string{"network", "actor", youtube.Platform},
		Type:  youtube.Platform,
		Edges: make([]Edge, 0, len(records)),
	}
	for _, r := range records {
		nodes.add(r.Author, NodeActor, "")
		target, kind := r.Attribution, NodeActor
		switch {
		case target == youtube.AttributionNone || target == "":
			target, kind = youtube.AttributionNone, NodeUnattributed
			g.Unattributed = append(g.Unattributed, r.CommentID)
		case youtube.IsVideoSink(target):
			kind = NodeVideo
		}
		nodes.add(target, kind, "")

		e := Edge{
			From:        r.Author,
			To:          target,
			Label:       r.CommentID,
			Kind:        actorEdgeKind(r, target, parentAuthor),
			SourceID:    r.SourceID,
			PublishTime: r.PublishTime,
		}
		if o.withText {
			e.Text = r.Text
		}
		g.Edges = append(g.Edges, e)
	}
	g.Nodes = nodes.nodes

	if len(g.Unattributed) > 0 {
		slog.Warn("records without attribution linked to the unattributed node",
			slog.Int("count", len(g.Unattributed)),
			slog.Any("comment_ids", g.Unattributed))
	}
	engine.IncrNetworksBuilt()
	return g, nil
}

func actorEdgeKind(r youtube.CommentRecord, target string, parentAuthor map[string]string) EdgeKind {
	switch {
	case target == youtube.AttributionNone:
		return EdgeUnattributed
	case youtube.IsVideoSink(target):
		return EdgeComment
	case r.IsReply() && parentAuthor[r.ParentID] == target:
		return EdgeReplyComment
	default:
		return EdgeMention
	}
}
