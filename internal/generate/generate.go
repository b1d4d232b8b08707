// Package generate runs the documentation pipeline for one library:
// metadata, file discovery, public API extraction and rendering.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/contaixt/laibrary/internal/discover"
	"github.com/contaixt/laibrary/internal/lang"
	"github.com/contaixt/laibrary/internal/model"
	"github.com/contaixt/laibrary/internal/parse"
	"github.com/contaixt/laibrary/internal/render"
	"github.com/contaixt/laibrary/internal/toon"
)

// Output formats.
const (
	FormatXML  = "xml"
	FormatTOON = "toon"
)

var errNoSources = errors.New("no source files found")

// Options selects what to document and how.
type Options struct {
	Language  string
	Root      string
	Format    string // FormatXML (default) or FormatTOON
	CachePath string // reuse output while no source is newer and Language and Format match; empty disables
}

// Generate documents the library at opts.Root. The analyser is looked up
// before anything is read, so an unknown language fails without I/O.
func Generate(ctx context.Context, reg *lang.Registry, opts Options, logger *log.Logger) (string, error) {
	a, err := reg.Get(opts.Language)
	if err != nil {
		return "", err
	}
	format := opts.Format
	if format == "" {
		format = FormatXML
	}
	if format != FormatXML && format != FormatTOON {
		return "", fmt.Errorf("unknown output format %q", format)
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}

	start := time.Now()

	meta, err := a.PackageMetadata(root)
	if err != nil {
		return "", err
	}
	logger.Debug("package metadata", "name", meta.Name, "version", meta.Version)

	files, err := discover.Files(root, a.FileExtensions())
	if err != nil {
		return "", fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return "", &model.ParseError{Path: root, Err: errNoSources}
	}
	logger.Debug("discovered files", "count", len(files))

	header := cacheHeader(a.Name(), format)
	if opts.CachePath != "" && cacheIsFresh(opts.CachePath, root, files) {
		if out, ok := readCache(opts.CachePath, header); ok {
			logger.Debug("using cached output", "cache", opts.CachePath)
			return out, nil
		}
		logger.Debug("cache written for other options", "cache", opts.CachePath)
	}

	parser := parse.NewParser(a.ParserLanguage())
	defer parser.Close()

	namespaces, err := a.ExtractPublicAPI(ctx, root, discover.Paths(files), meta.Name, parser)
	if err != nil {
		return "", err
	}
	logger.Debug("extracted public API", "namespaces", len(namespaces), "elapsed", time.Since(start))

	var output string
	switch format {
	case FormatTOON:
		output = toon.Encode(meta, namespaces)
	default:
		output, err = render.Library(meta, namespaces, a)
		if err != nil {
			return "", err
		}
	}

	if opts.CachePath != "" {
		if err := os.WriteFile(opts.CachePath, []byte(header+output), 0o644); err != nil {
			logger.Warn("writing cache", "cache", opts.CachePath, "err", err)
		}
	}
	return output, nil
}
