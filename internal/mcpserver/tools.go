package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contaixt/laibrary/internal/generate"
	"github.com/contaixt/laibrary/internal/model"
)

// ToolLibraryAPI is the name of the documentation tool.
const ToolLibraryAPI = "library_api"

// libraryAPITool returns the tool definition for library_api.
func libraryAPITool(languages []string) mcp.Tool {
	langEnum := make([]interface{}, len(languages))
	for i, l := range languages {
		langEnum[i] = l
	}
	return mcp.Tool{
		Name:        ToolLibraryAPI,
		Description: "Extract the public API of a library with its documentation, grouped by namespace",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the library root (the directory holding its package manifest)",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Source language of the library",
					"enum":        langEnum,
					"default":     "rust",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "xml for the full API with source, toon for a compact signature index",
					"enum":        []interface{}{generate.FormatXML, generate.FormatTOON},
					"default":     generate.FormatXML,
				},
			},
			Required: []string{"path"},
		},
	}
}

// handleLibraryAPI handles the library_api tool invocation. Pipeline
// failures are reported as tool errors so the client can show them.
func (s *Server) handleLibraryAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	if err := validatePath(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
	}

	opts := generate.Options{
		Language: getStringDefault(args, "language", "rust"),
		Root:     path,
		Format:   getStringDefault(args, "format", generate.FormatXML),
	}

	out, err := generate.Generate(ctx, s.registry, opts, s.logger)
	if err != nil {
		s.logger.Warn("library_api failed", "path", path, "err", err)
		return mcp.NewToolResultError(describe(err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

// describe prefixes an error with its category.
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrUnsupportedLanguage):
		return "unsupported language: " + err.Error()
	case errors.Is(err, model.ErrReExportCycle):
		return "resolution failed: " + err.Error()
	case errors.Is(err, model.ErrParse):
		return "parse failed: " + err.Error()
	case errors.Is(err, model.ErrFormatting):
		return "formatting failed: " + err.Error()
	}
	return err.Error()
}

func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}

func getStringDefault(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}
