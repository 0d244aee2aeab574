// Package mcpserver exposes the meeting query operations as MCP tools
// over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/meetings"
	"github.com/starford/ansuz/internal/untyped"
)

// Server wraps the MCP server with the meeting tools.
type Server struct {
	mcp *server.MCPServer
	svc *meetings.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *meetings.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List meetings with optional free-text and time-range filters, newest first."),
		mcp.WithString("q", mcp.Description("Case-insensitive substring matched against title, notes, and participants")),
		mcp.WithString("from_ts", mcp.Description("Inclusive ISO 8601 lower bound on the start timestamp")),
		mcp.WithString("to_ts", mcp.Description("Inclusive ISO 8601 upper bound on the start timestamp")),
		mcp.WithArray("participants", mcp.Description("Participant names; any case-insensitive match qualifies")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithString("cursor", mcp.Description("Pagination cursor returned by a previous call")),
	), s.listMeetings)

	s.mcp.AddTool(mcp.NewTool("get_meeting",
		mcp.WithDescription("Get the full record for one meeting by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Meeting identifier")),
		mcp.WithBoolean("include_transcript", mcp.Description("Attach coalesced transcript turns when available")),
	), s.getMeeting)

	s.mcp.AddTool(mcp.NewTool("search_meetings",
		mcp.WithDescription("Search meetings by free text with optional participant, platform, and time filters."),
		mcp.WithString("q", mcp.Required(), mcp.Description("Search query")),
		mcp.WithArray("participants", mcp.Description("Participant names; any case-insensitive match qualifies")),
		mcp.WithString("platform", mcp.Description("Platform filter: meet, zoom, teams, or other")),
		mcp.WithString("after", mcp.Description("Inclusive ISO 8601 lower bound on the start timestamp")),
		mcp.WithString("before", mcp.Description("Inclusive ISO 8601 upper bound on the start timestamp")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithString("cursor", mcp.Description("Pagination cursor returned by a previous call")),
	), s.searchMeetings)

	s.mcp.AddTool(mcp.NewTool("export_markdown",
		mcp.WithDescription("Render one meeting as Markdown with selectable sections."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Meeting identifier")),
		mcp.WithArray("sections", mcp.Description("Sections to include: header, attendees, notes (default all three)")),
	), s.exportMarkdown)

	s.mcp.AddTool(mcp.NewTool("meeting_stats",
		mcp.WithDescription("Count meetings grouped by day or ISO week, optionally within a trailing window."),
		mcp.WithString("window", mcp.Description("Trailing window: 7d, 30d, or 90d (default: all)")),
		mcp.WithString("group_by", mcp.Description("Grouping: day (default) or week")),
	), s.meetingStats)

	s.mcp.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Report cache path, size, structure validity, last load time, and search profile."),
	), s.cacheStatus)

	s.mcp.AddTool(mcp.NewTool("refresh_cache",
		mcp.WithDescription("Force a reload of the cache from its source and resync the search index."),
	), s.refreshCache)

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

func (s *Server) listMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	page, err := s.svc.List(meetings.ListParams{
		Query:        untyped.Str(args, "q"),
		From:         untyped.Str(args, "from_ts"),
		To:           untyped.Str(args, "to_ts"),
		Participants: stringList(args, "participants"),
		Limit:        intArg(args, "limit"),
		Cursor:       untyped.Str(args, "cursor"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(page), nil
}

func (s *Server) getMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(apperr.BadRequest(err.Error(), nil)), nil
	}
	args := req.GetArguments()
	include, _ := args["include_transcript"].(bool)
	m, err := s.svc.Get(id, include)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(m), nil
}

func (s *Server) searchMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("q")
	if err != nil {
		return errorResult(apperr.BadRequest(err.Error(), nil)), nil
	}
	args := req.GetArguments()
	page, err := s.svc.Search(meetings.SearchParams{
		Query:        q,
		Participants: stringList(args, "participants"),
		Platform:     untyped.Str(args, "platform"),
		After:        untyped.Str(args, "after"),
		Before:       untyped.Str(args, "before"),
		Limit:        intArg(args, "limit"),
		Cursor:       untyped.Str(args, "cursor"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(page), nil
}

func (s *Server) exportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(apperr.BadRequest(err.Error(), nil)), nil
	}
	md, err := s.svc.ExportMarkdown(id, stringList(req.GetArguments(), "sections"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) meetingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	stats, err := s.svc.Stats(untyped.Str(args, "window"), untyped.Str(args, "group_by"))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) cacheStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.CacheStatus()), nil
}

func (s *Server) refreshCache(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.svc.Refresh()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// errorResult converts err into a structured {code, message, details}
// payload. The boundary never surfaces an unstructured fault.
func errorResult(err error) *mcp.CallToolResult {
	out, _ := json.Marshal(apperr.From(err))
	return mcp.NewToolResultError(string(out))
}

func stringList(args map[string]any, key string) []string {
	var out []string
	for _, v := range untyped.Slice(args, key) {
		if s, ok := untyped.AsString(v); ok {
			out = append(out, s)
		}
	}
	return out
}

func intArg(args map[string]any, key string) int {
	n, _ := untyped.AsNumber(args[key])
	return int(n)
}
