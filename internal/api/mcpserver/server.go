package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vision-mcp/internal/domain/entity"
)

// ServerName имя, под которым сервер представляется агенту
const ServerName = "mcp-image-recognition"

// Describer операции описания, которые сервер отдаёт как инструменты
type Describer interface {
	DescribeImage(ctx context.Context, image, prompt string) (string, error)
	DescribeImageFromFile(ctx context.Context, path, prompt string) (string, error)
	DescribeImageFromURL(ctx context.Context, url, prompt string) (string, error)
}

type handlers struct {
	svc Describer
	log *slog.Logger
}

// New создаёт MCP-сервер с тремя инструментами
func New(svc Describer, version string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	h := &handlers{svc: svc, log: logger}

	s.AddTool(mcp.NewTool("describe_image",
		mcp.WithDescription("Describe the contents of an image using vision AI."),
		mcp.WithString("image", mcp.Required(),
			mcp.Description("Base64-encoded image data, optionally as a data: URL"),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional prompt to use for the description."),
			mcp.DefaultString(entity.DefaultPrompt),
		),
	), h.describeImage)

	s.AddTool(mcp.NewTool("describe_image_from_file",
		mcp.WithDescription("Describe the contents of an image file using vision AI."),
		mcp.WithString("filepath", mcp.Required(),
			mcp.Description("Path to the image file"),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional prompt to use for the description."),
			mcp.DefaultString(entity.DefaultPrompt),
		),
	), h.describeImageFromFile)

	s.AddTool(mcp.NewTool("describe_image_from_url",
		mcp.WithDescription("Describe an image fetched from a URL using vision AI."),
		mcp.WithString("url", mcp.Required(),
			mcp.Description("HTTP(S) URL of the image"),
		),
		mcp.WithString("prompt",
			mcp.Description("Optional prompt to use for the description."),
			mcp.DefaultString(entity.DefaultPrompt),
		),
	), h.describeImageFromURL)

	return s
}

// Serve обслуживает агента через stdin/stdout до закрытия потока
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (h *handlers) describeImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	image, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prompt := req.GetString("prompt", entity.DefaultPrompt)
	h.log.InfoContext(ctx, "processing image description request", "prompt", prompt)
	h.log.DebugContext(ctx, "image data length", "length", len(image))

	return toolResult(h.svc.DescribeImage(ctx, image, prompt))
}

func (h *handlers) describeImageFromFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("filepath")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(h.svc.DescribeImageFromFile(ctx, path, req.GetString("prompt", entity.DefaultPrompt)))
}

func (h *handlers) describeImageFromURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(h.svc.DescribeImageFromURL(ctx, url, req.GetString("prompt", entity.DefaultPrompt)))
}

// toolResult ошибки сервиса уходят агенту как ошибки инструмента, а не протокола
func toolResult(description string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(description), nil
}
