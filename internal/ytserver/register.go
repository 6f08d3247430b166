// Package ytserver exposes comment collection and network building as MCP tools.
package ytserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytnet/internal/engine/network"
	"github.com/anatolykoptev/go_ytnet/internal/engine/store"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 4

// RegisterTools registers youtube_collect, youtube_actor_network,
// youtube_activity_network and youtube_collections on the server.
func RegisterTools(server *mcp.Server) {
	registerCollect(server)
	registerActorNetwork(server)
	registerActivityNetwork(server)
	registerCollections(server)
}

type recordStore interface {
	SaveCollection(ctx context.Context, df *youtube.Dataframe) (int64, error)
	ListCollections(ctx context.Context, limit int) ([]store.CollectionInfo, error)
	LoadCollection(ctx context.Context, id int64) (*youtube.Dataframe, error)
}

type graphStore interface {
	SaveNetwork(ctx context.Context, g *network.Graph) (store.SaveStats, error)
	ClearNetwork(ctx context.Context) error
}

var (
	records recordStore
	graphDB graphStore

	// newFetcher is replaced in tests.
	newFetcher = func() (youtube.PageFetcher, error) {
		f, err := youtube.NewFetcherFromConfig()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
)

// SetRecordStore enables saving and loading collections.
func SetRecordStore(s *store.RecordStore) {
	if s != nil {
		records = s
	}
}

// SetGraphDB enables saving networks to the AGE graph.
func SetGraphDB(db *store.GraphDB) {
	if db != nil {
		graphDB = db
	}
}
