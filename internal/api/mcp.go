package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/biafin/bia/internal/llm"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/storage"
)

// Conversationalist is the agent surface the MCP layer drives.
type Conversationalist interface {
	ProcessTurn(ctx context.Context, message string, hist []llm.Message) (string, profile.Profile, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store   *storage.Store
	Profile *profile.Manager
	Agent   Conversationalist
}

// NewMCPServer creates an MCP server exposing the assistant and profile.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"bia",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("bia — assistente financeira educacional que coleta o perfil do usuário em conversas."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("chat_message",
			mcp.WithDescription("Send a message to the assistant and get its reply. Extracted facts are staged until the user confirms them in a later message."),
			mcp.WithString("message", mcp.Description("User message in Portuguese"), mcp.Required()),
		),
		mcpChatMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Return the stored financial profile as JSON."),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("summarize_profile",
			mcp.WithDescription("Return a human-readable summary of the stored financial profile."),
		),
		mcpSummarizeProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"Financial Profile",
			mcp.WithResourceDescription("Current financial profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://recent-interactions",
			"Recent Interactions",
			mcp.WithResourceDescription("Last 10 recorded conversation turns (messages truncated)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpChatMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, _, err := deps.Agent.ProcessTurn(ctx, message, nil)
		if err != nil {
			return mcpError(fmt.Sprintf("processing message failed: %v", err)), nil
		}

		return mcpText(reply), nil
	}
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := deps.Profile.Get()
		if err != nil {
			return mcpError(fmt.Sprintf("loading profile failed: %v", err)), nil
		}

		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling profile failed: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpSummarizeProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := deps.Profile.Get()
		if err != nil {
			return mcpError(fmt.Sprintf("loading profile failed: %v", err)), nil
		}

		return mcpText(profile.Summary(p)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profile.Get()
		if err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshaling profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		interactions, err := deps.Store.GetRecentInteractions(10)
		if err != nil {
			return nil, fmt.Errorf("loading interactions: %w", err)
		}

		type interactionSummary struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			Message   string `json:"message"`
		}

		summaries := make([]interactionSummary, len(interactions))
		for i, ix := range interactions {
			message := ix.UserMessage
			if utf8.RuneCountInString(message) > 200 {
				runes := []rune(message)
				message = string(runes[:200]) + "..."
			}
			summaries[i] = interactionSummary{
				ID:        ix.ID,
				CreatedAt: ix.CreatedAt.Format(time.RFC3339),
				Message:   message,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("marshaling interactions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
