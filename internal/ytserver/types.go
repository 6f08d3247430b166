package ytserver

import (
	"github.com/anatolykoptev/go_ytnet/internal/engine/network"
	"github.com/anatolykoptev/go_ytnet/internal/engine/store"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

// CollectInput is the input for youtube_collect.
type CollectInput struct {
	VideoIDs    []string `json:"video_ids" jsonschema:"YouTube video ids or URLs"`
	MaxComments int      `json:"max_comments,omitempty" jsonschema:"top-level comments per video, 0 = server default"`
	Save        bool     `json:"save,omitempty" jsonschema:"store the collection in the local database"`
}

// CollectOutput is the output for youtube_collect.
type CollectOutput struct {
	RunID        string                  `json:"run_id,omitempty"`
	VideoIDs     []string                `json:"video_ids"`
	Skipped      []string                `json:"skipped,omitempty" jsonschema:"videos skipped because comments are disabled"`
	Records      int                     `json:"records"`
	Comments     int                     `json:"comments"`
	Replies      int                     `json:"replies"`
	Authors      int                     `json:"authors"`
	Columns      []string                `json:"columns"`
	Data         []youtube.CommentRecord `json:"data"`
	CollectionID int64                   `json:"collection_id,omitempty"`
	Partial      bool                    `json:"partial,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// NetworkInput is the input for youtube_actor_network and youtube_activity_network.
type NetworkInput struct {
	VideoIDs     []string `json:"video_ids,omitempty" jsonschema:"videos to collect; ignored when collection_id is set"`
	CollectionID int64    `json:"collection_id,omitempty" jsonschema:"build from a stored collection instead of collecting"`
	MaxComments  int      `json:"max_comments,omitempty"`
	IncludeText  bool     `json:"include_text,omitempty" jsonschema:"copy comment text onto edges"`
	Top          int      `json:"top,omitempty" jsonschema:"size of the top in/out degree lists, default 10"`
	SaveGraph    bool     `json:"save_graph,omitempty" jsonschema:"merge the network into the AGE graph database"`
	ReplaceGraph bool     `json:"replace_graph,omitempty" jsonschema:"with save_graph, clear the stored graph before merging"`
}

// NetworkOutput is the output for the network tools.
type NetworkOutput struct {
	Graph   *network.Graph   `json:"graph"`
	Summary network.Summary  `json:"summary"`
	Saved   *store.SaveStats `json:"saved,omitempty"`
}

// CollectionsInput is the input for youtube_collections.
type CollectionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max collections to list, default 50"`
}

// CollectionsOutput is the output for youtube_collections.
type CollectionsOutput struct {
	Collections []store.CollectionInfo `json:"collections"`
	Total       int                    `json:"total"`
}
