// Package mcpserver exposes signature lookup as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toyz/locus/internal/report"
	"github.com/toyz/locus/internal/service"
)

// Tool names
const (
	LocateTool  = "locate_declaration"
	BatchTool   = "locate_batch"
	OutlineTool = "outline_type"
)

// Handler converts MCP tool calls into service operations
type Handler struct {
	svc *service.Service
}

// NewHandler creates a Handler for svc
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// New creates the MCP server and registers the tools
func New(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"locus",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool(LocateTool,
		mcp.WithDescription("Find the source range of the Java method or constructor matching a compiled signature. Accepts Type#name(params), Method.toString() text and JVM member descriptors."),
		mcp.WithString("signature",
			mcp.Required(),
			mcp.Description("Compiled signature, e.g. org.samples.Person#getAge(int, Object[])"),
		),
	), h.Locate)

	s.AddTool(mcp.NewTool(BatchTool,
		mcp.WithDescription(fmt.Sprintf("Locate up to %d compiled signatures at once and report located and failed counts.", service.MaxBatchSize)),
		mcp.WithArray("signatures",
			mcp.Required(),
			mcp.Description("Compiled signatures"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), h.LocateBatch)

	s.AddTool(mcp.NewTool(OutlineTool,
		mcp.WithDescription("List the methods and constructors of a Java type with their erased signatures and source ranges."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Binary or canonical type name, e.g. org.samples.Person$Address"),
		),
	), h.Outline)

	return s
}

// Serve runs the server over the given streams until ctx is done
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

// Locate handles the locate_declaration tool
func (h *Handler) Locate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("signature")
	if err != nil {
		return mcp.NewToolResultError("signature is required"), nil
	}

	result := h.svc.LocateText(text)
	if !result.OK() {
		return mcp.NewToolResultError(failure(result)), nil
	}
	return jsonResult(result)
}

// LocateBatch handles the locate_batch tool
func (h *Handler) LocateBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	texts := req.GetStringSlice("signatures", nil)
	if len(texts) == 0 {
		return mcp.NewToolResultError("signatures must not be empty"), nil
	}
	if len(texts) > service.MaxBatchSize {
		return mcp.NewToolResultError(fmt.Sprintf("too many signatures: %d (max %d)", len(texts), service.MaxBatchSize)), nil
	}

	results := h.svc.LocateAll(ctx, texts, nil)
	located, failed := report.Summary(results)
	return jsonResult(map[string]any{
		"results": results,
		"located": located,
		"failed":  failed,
	})
}

// Outline handles the outline_type tool
func (h *Handler) Outline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type is required"), nil
	}

	outline, err := h.svc.Outline(typeName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", service.ErrorKind(err), err)), nil
	}
	return jsonResult(outline)
}

func failure(r service.Result) string {
	msg := fmt.Sprintf("%s: %s", r.ErrorKind, r.Message)
	for _, s := range r.Suggestions {
		msg += "\n  " + s
	}
	return msg
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
