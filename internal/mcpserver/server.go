package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/curaious/companion/internal/upsert"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the companion form to MCP clients as tools.
type Server struct {
	mcpServer *server.MCPServer
	client    upsert.Client
}

func NewServer(client upsert.Client, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Companion",
			version,
			server.WithToolCapabilities(true),
		),
		client: client,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_categories",
			mcp.WithDescription("List the categories a companion can be filed under"),
		),
		s.handleListCategories,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"upsert_companion",
			mcp.WithDescription("Create a companion, or update one when id is given. Returns the per-field messages when the draft is invalid."),
			mcp.WithString("id", mcp.Description("ID of the companion to update; omit to create")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
			mcp.WithString("description", mcp.Required(), mcp.Description("Short description")),
			mcp.WithString("instructions", mcp.Required(), mcp.Description("Behaviour instructions, at least 200 characters")),
			mcp.WithString("seed", mcp.Required(), mcp.Description("Example conversation, at least 200 characters")),
			mcp.WithString("src", mcp.Required(), mcp.Description("Image URL")),
			mcp.WithString("categoryId", mcp.Required(), mcp.Description("Category ID or name")),
		),
		s.handleUpsertCompanion,
	)
}

func (s *Server) handleListCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list categories: %v", err)), nil
	}

	jsonBytes, _ := sonic.Marshal(categories)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleUpsertCompanion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	// Arguments carry the draft under its wire names
	raw, err := sonic.Marshal(args)
	if err != nil {
		return mcp.NewToolResultError("Invalid arguments"), nil
	}
	var draft companionform.Draft
	if err := sonic.Unmarshal(raw, &draft); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}
	id, _ := args["id"].(string)

	var notice companionform.Notice
	result, err := upsert.Run(ctx, s.client, draft, upsert.Options{
		ID: id,
		Feedback: companionform.FeedbackFunc(func(_ context.Context, n companionform.Notice) {
			notice = n
		}),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to submit companion: %v", err)), nil
	}

	switch result.Outcome {
	case companionform.OutcomeSucceeded:
		return mcp.NewToolResultText(notice.Message), nil
	case companionform.OutcomeInvalid:
		jsonBytes, _ := sonic.Marshal(result.Errors)
		return mcp.NewToolResultError(string(jsonBytes)), nil
	default:
		slog.ErrorContext(ctx, "Companion upsert failed",
			slog.String("id", id),
			slog.String("outcome", string(result.Outcome)),
			slog.Any("error", result.Cause))
		return mcp.NewToolResultError(notice.Message), nil
	}
}
