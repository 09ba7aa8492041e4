// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the portfolio content for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/calder/folio/internal/assistant"
	"github.com/calder/folio/internal/portfolio"
	"github.com/calder/folio/internal/storage"
)

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolio.Service
	dir *storage.Dir
}

// New creates a new MCP server with all portfolio tools registered.
func New(svc *portfolio.Service, dir *storage.Dir) *Server {
	s := &Server{svc: svc, dir: dir}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_profile",
		mcp.WithDescription("Read the portfolio owner's profile: name, role, contact details, and summary."),
	), s.getProfile)

	s.mcp.AddTool(mcp.NewTool("list_skills",
		mcp.WithDescription("List all skills with proficiency levels (0-100), in display order."),
	), s.listSkills)

	s.mcp.AddTool(mcp.NewTool("list_experience",
		mcp.WithDescription("List work experience entries in display order."),
	), s.listExperience)

	s.mcp.AddTool(mcp.NewTool("list_education",
		mcp.WithDescription("List education entries in display order."),
	), s.listEducation)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List portfolio projects with tech stacks and links, in display order."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("list_certifications",
		mcp.WithDescription("List certifications, most recent first."),
	), s.listCertifications)

	s.mcp.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Full-text search across all portfolio content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchContent)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Download an image or PDF from a URL (or decode a data URI) and store it as a portfolio asset. Returns the public path."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data URI of the asset")),
		mcp.WithString("filename", mcp.Description("Optional filename to store the asset under")),
	), s.uploadAsset)

	// Resource: the same grounding document the chat assistant uses.
	s.mcp.AddResource(
		mcp.NewResource("folio://context", "Portfolio Context",
			mcp.WithResourceDescription("The full portfolio content rendered as assistant grounding text."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readContextResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Profile(ctx)), nil
}

func (s *Server) listSkills(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Skills(ctx)), nil
}

func (s *Server) listExperience(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Experiences(ctx)), nil
}

func (s *Server) listEducation(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Educations(ctx)), nil
}

func (s *Server) listProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Projects(ctx)), nil
}

func (s *Server) listCertifications(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Certifications(ctx)), nil
}

func (s *Server) searchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) readContextResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "folio://context",
			MIMEType: "text/plain",
			Text:     assistant.SystemPrompt(s.svc.ContextSnapshot(ctx)),
		},
	}, nil
}
