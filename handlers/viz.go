// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_pipeline_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/harperreed/touchbase/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	session *crm.Session
}

func NewVizHandlers(session *crm.Session) *VizHandlers {
	return &VizHandlers{session: session}
}

type GeneratePipelineGraphInput struct {
	Stage  string `json:"stage,omitempty" jsonschema:"Only draw contacts in this stage: Lead, Active, Waiting or Customer"`
	Format string `json:"format,omitempty" jsonschema:"dot (default) or svg"`
}

type GeneratePipelineGraphOutput struct {
	Format    string `json:"format"`
	Source    string `json:"source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GeneratePipelineGraph(ctx context.Context, _ *mcp.CallToolRequest, input GeneratePipelineGraphInput) (*mcp.CallToolResult, GeneratePipelineGraphOutput, error) {
	stageFilter := crm.StageAll
	if input.Stage != "" && input.Stage != crm.StageAll {
		stage, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, GeneratePipelineGraphOutput{}, err
		}
		stageFilter = string(stage)
	}

	format := strings.ToLower(input.Format)
	var gvFormat graphviz.Format
	switch format {
	case "", "dot":
		format = "dot"
		gvFormat = graphviz.XDOT
	case "svg":
		gvFormat = graphviz.SVG
	default:
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("unknown format: %s (valid formats: dot, svg)", input.Format)
	}

	contacts := h.session.Contacts("", stageFilter)
	source, err := viz.GeneratePipelineGraph(ctx, contacts, h.session.Now(), gvFormat)
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	out := GeneratePipelineGraphOutput{Format: format, Source: source}
	if format == "dot" {
		out.NodeCount = strings.Count(source, "label=")
		out.EdgeCount = strings.Count(source, "->")
	}
	return nil, out, nil
}
