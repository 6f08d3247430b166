package ytserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerCollections(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_collections",
		Description: "List comment collections saved with youtube_collect save=true, newest first. Use a returned id as collection_id for the network tools.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CollectionsInput) (*mcp.CallToolResult, CollectionsOutput, error) {
		out, err := handleCollections(ctx, input)
		return nil, out, err
	})
}

func handleCollections(ctx context.Context, input CollectionsInput) (CollectionsOutput, error) {
	if records == nil {
		return CollectionsOutput{}, errors.New("collection store is not configured (set SQLITE_PATH)")
	}
	list, err := records.ListCollections(ctx, input.Limit)
	if err != nil {
		return CollectionsOutput{}, err
	}
	return CollectionsOutput{Collections: list, Total: len(list)}, nil
}
