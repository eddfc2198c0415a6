// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the hoursight MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Hoursight Timesheet Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	pathArg := mcp.WithString("path", mcp.Description("Path to a timesheet export (.csv, .tsv, .xlsx, .xlsm or .xls)."), mcp.Required())
	startArg := mcp.WithString("start", mcp.Description("First month to include (YYYY-MM, YYYY-MM-DD or a phrase such as '3 months ago')."))
	endArg := mcp.WithString("end", mcp.Description("Last month to include, same formats as start."))

	// --- 1. Tool: summarize_timesheet ---
	s.AddTool(mcp.NewTool("summarize_timesheet",
		mcp.WithDescription("Summarize a timesheet: months covered, total hours, main projects versus Others, and dropped rows."),
		pathArg, startArg, endArg,
	), h.handleSummarize)

	// --- 2. Tool: get_project_breakdown ---
	s.AddTool(mcp.NewTool("get_project_breakdown",
		mcp.WithDescription("Hours per project and month. Small projects are merged into one Others row."),
		pathArg, startArg, endArg,
	), h.handleProjectBreakdown)

	// --- 3. Tool: get_developer_breakdown ---
	s.AddTool(mcp.NewTool("get_developer_breakdown",
		mcp.WithDescription("Hours per developer and month, highest total first."),
		pathArg, startArg, endArg,
		mcp.WithNumber("limit", mcp.Description("Limit the number of developers returned.")),
	), h.handleDeveloperBreakdown)

	// --- 4. Tool: get_developer_insights ---
	s.AddTool(mcp.NewTool("get_developer_insights",
		mcp.WithDescription("Project by month drill-down for one developer."),
		pathArg,
		mcp.WithString("user", mcp.Description("Developer name exactly as it appears in the timesheet."), mcp.Required()),
		mcp.WithString("project", mcp.Description("Restrict the drill-down to one project.")),
	), h.handleDeveloperInsights)

	return s
}

// StartMCPServer starts the hoursight MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
