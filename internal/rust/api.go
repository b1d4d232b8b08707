package rust

import (
	"context"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/contaixt/laibrary/internal/model"
)

// BuildPublicAPI collects, resolves and groups the public API of the crate
// whose root module is entry.
func BuildPublicAPI(ctx context.Context, entry, crateName string, parser *sitter.Parser, logger *log.Logger) ([]model.Namespace, error) {
	raw, err := CollectSymbols(ctx, entry, parser, logger)
	if err != nil {
		return nil, err
	}
	resolution, err := ResolveSymbols(raw, logger)
	if err != nil {
		return nil, err
	}
	return ConstructNamespaces(resolution, crateName), nil
}
