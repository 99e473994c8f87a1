package routes

import (
	"context"
	"marketmcp/marketmcp/controllers"
	"marketmcp/marketmcp/utils/types"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServiceName    = "market-analysis-mcp"
	ServiceVersion = "0.1.0"

	mcpInstructions = "Tools for market and industry analysis: fetch URL HTML, extract main text, " +
		"extract short evidence excerpts, and save sources and reports."
)

// NewMCPServer exposes the tool table over the Model Context Protocol.
// Results match the line protocol except extract_evidence_quotes, which is
// wrapped as {"excerpts": [...]} because structured content must be an object.
func NewMCPServer(ctrl *controllers.ToolsController) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServiceName, Version: ServiceVersion},
		&mcp.ServerOptions{Instructions: mcpInstructions})
	a := ctrl.Actions()

	addTool(server, ctrl, types.ToolFetchURL,
		"Fetch a URL and return its HTML and metadata.", a.FetchURL)
	addTool(server, ctrl, types.ToolExtractMainText,
		"Extract main text and basic metadata from HTML.", a.ExtractMainText)
	addTool(server, ctrl, types.ToolExtractEvidenceQuotes,
		"Return one short excerpt per claim, capped at the configured length.",
		func(ctx context.Context, p types.EvidenceQuotesParams) (types.EvidenceQuotesResult, error) {
			excerpts, err := a.ExtractEvidenceQuotes(ctx, p)
			return types.EvidenceQuotesResult{Excerpts: excerpts}, err
		})
	addTool(server, ctrl, types.ToolSaveSources,
		"Validate source records and save them as a JSON array.", a.SaveSources)
	addTool(server, ctrl, types.ToolSaveReport,
		"Save a markdown report verbatim.", a.SaveReport)

	return server
}

// ServeMCP runs server on stdin/stdout until the client disconnects.
func ServeMCP(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func addTool[In, Out any](server *mcp.Server, ctrl *controllers.ToolsController, name, description string, op func(context.Context, In) (Out, error)) {
	mcp.AddTool(server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
			var out Out
			err := ctrl.Run(ctx, name, func(ctx context.Context) error {
				var err error
				out, err = op(ctx, in)
				return err
			})
			return nil, out, err
		})
}
