package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// configFor clones the base config and applies the path and month range arguments.
func (h *toolHandler) configFor(request mcp.CallToolRequest, withRange bool) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	path := request.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := contract.RevalidateInput(cfg, path); err != nil {
		return nil, err
	}
	if withRange {
		if err := contract.RevalidateRange(cfg, request.GetString("start", ""), request.GetString("end", "")); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.BuildReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(outwriter.BuildSummaryView(report)), nil
}

func (h *toolHandler) handleProjectBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.BuildReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project breakdown failed: %v", err)), nil
	}
	return jsonResult(outwriter.BuildProjectsView(report)), nil
}

func (h *toolHandler) handleDeveloperBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	report, err := core.BuildReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("developer breakdown failed: %v", err)), nil
	}
	return jsonResult(outwriter.BuildDevelopersView(report, cfg.ResultLimit)), nil
}

func (h *toolHandler) handleDeveloperInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.InsightUser = request.GetString("user", "")
	cfg.InsightProject = request.GetString("project", "")

	insight, err := core.BuildInsights(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("developer insights failed: %v", err)), nil
	}
	return jsonResult(insight), nil
}
