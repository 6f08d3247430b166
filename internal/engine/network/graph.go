// Package network turns attributed YouTube comment records into directed
// multigraphs: actor networks (who talks to whom) and activity networks
// (which comment answers which).
package network

import "errors"

// ErrNoConversation is returned when there are no records to build from.
var ErrNoConversation = errors.New("no comment records to build a network from")

// NodeKind classifies graph nodes.
type NodeKind string

const (
	NodeActor   NodeKind = "actor"
	NodeVideo   NodeKind = "video"
	NodeComment NodeKind = "comment"

	// NodeUnattributed collects edges whose target could not be resolved.
	NodeUnattributed NodeKind = "unattributed"
)

// EdgeKind classifies graph edges.
type EdgeKind string

const (
	EdgeComment      EdgeKind = "comment"       // comment on the video itself
	EdgeReplyComment EdgeKind = "reply-comment" // reply directed at the parent's author
	EdgeMention      EdgeKind = "mention"       // directed at a named author
	EdgeReply        EdgeKind = "reply"         // activity: reply to parent comment
	EdgeUnattributed EdgeKind = "unattributed"  // no mention and no known parent
)

// Node is a graph vertex. Label always equals ID.
type Node struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Kind   NodeKind `json:"kind"`
	Author string   `json:"author,omitempty"`
}

// Edge is one directed edge. Parallel edges and self-loops are allowed.
type Edge struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Label       string   `json:"label"` // comment id
	Kind        EdgeKind `json:"kind"`
	SourceID    string   `json:"source_id"`
	PublishTime string   `json:"publish_time,omitempty"`
	Text        string   `json:"text,omitempty"`
}

// Graph is a directed multigraph with class markers.
type Graph struct {
	Class        []string `json:"class"`
	Type         string   `json:"type"`
	Nodes        []Node   `json:"nodes"`
	Edges        []Edge   `json:"edges"`
	Unattributed []string `json:"unattributed,omitempty"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Option configures a builder.
type Option func(*options)

type options struct {
	withText bool
}

// WithText copies comment text onto edges.
func WithText() Option {
	return func(o *options) { o.withText = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// nodeSet accumulates nodes in first-seen order.
type nodeSet struct {
	idx   map[string]int
	nodes []Node
}

func newNodeSet() *nodeSet { return &nodeSet{idx: make(map[string]int)} }

func (s *nodeSet) add(id string, kind NodeKind, author string) {
	if _, ok := s.idx[id]; ok {
		return
	}
	s.idx[id] = len(s.nodes)
	s.nodes = append(s.nodes, Node{ID: id, Label: id, Kind: kind, Author: author})
}

// fill sets the author of an existing node that was added as a placeholder.
func (s *nodeSet) fill(id, author string) {
	if i, ok := s.idx[id]; ok && s.nodes[i].Author == "" {
		s.nodes[i].Author = author
	}
}
