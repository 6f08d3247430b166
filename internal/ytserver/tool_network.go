package ytserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytnet/internal/engine/network"
	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

const defaultTop = 10

type buildFunc func([]youtube.CommentRecord, ...network.Option) (*network.Graph, error)

func registerActorNetwork(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_actor_network",
		Description: "Build a directed actor network from YouTube comments: one node per commenter plus a VIDEO:<id> node per video, one edge per comment from its author to the actor it addresses (edge kinds: comment, reply-comment, mention, unattributed). Collects the given videos or loads a stored collection by collection_id. Returns the graph and a degree summary. save_graph writes the graph to the AGE database; replace_graph deletes the stored graph first.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NetworkInput) (*mcp.CallToolResult, NetworkOutput, error) {
		out, err := handleNetwork(ctx, input, network.BuildActorNetwork)
		return nil, out, err
	})
}

func registerActivityNetwork(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_activity_network",
		Description: "Build a directed activity network from YouTube comments: one node per comment and per video, edges from each reply to its parent comment and from each top-level comment to its video. Collects the given videos or loads a stored collection by collection_id. save_graph writes the graph to the AGE database; replace_graph deletes the stored graph first.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input NetworkInput) (*mcp.CallToolResult, NetworkOutput, error) {
		out, err := handleNetwork(ctx, input, network.BuildActivityNetwork)
		return nil, out, err
	})
}

func handleNetwork(ctx context.Context, input NetworkInput, build buildFunc) (NetworkOutput, error) {
	df, err := networkSource(ctx, input)
	if err != nil {
		return NetworkOutput{}, err
	}

	var opts []network.Option
	if input.IncludeText {
		opts = append(opts, network.WithText())
	}
	g, err := build(df.Records, opts...)
	if err != nil {
		return NetworkOutput{}, err
	}

	top := input.Top
	if top <= 0 {
		top = defaultTop
	}
	out := NetworkOutput{Graph: g, Summary: g.Summary(top)}

	if input.SaveGraph {
		if graphDB == nil {
			return out, errors.New("save_graph requested but DATABASE_URL is not configured")
		}
		if input.ReplaceGraph {
			if err := graphDB.ClearNetwork(ctx); err != nil {
				return out, fmt.Errorf("clear network: %w", err)
			}
		}
		st, err := graphDB.SaveNetwork(ctx, g)
		if err != nil {
			return out, fmt.Errorf("save network: %w", err)
		}
		out.Saved = &st
	}
	return out, nil
}

// networkSource loads a stored collection or collects fresh. A partial
// collection is an error here: a network over an incomplete record set
// would silently miss edges.
func networkSource(ctx context.Context, input NetworkInput) (*youtube.Dataframe, error) {
	if input.CollectionID > 0 {
		if records == nil {
			return nil, errors.New("collection_id requires SQLITE_PATH to be configured")
		}
		return records.LoadCollection(ctx, input.CollectionID)
	}
	return collectDataframe(ctx, input.VideoIDs, input.MaxComments)
}
