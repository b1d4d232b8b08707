package rust

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/contaixt/laibrary/internal/model"
)

// ManifestFile is the name of the Cargo manifest.
const ManifestFile = "Cargo.toml"

var errNoPackageName = errors.New("manifest has no package.name")

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Version     any    `toml:"version"`
		Description any    `toml:"description"`
		Readme      any    `toml:"readme"`
	} `toml:"package"`
}

// PackageMetadata reads name and version from Cargo.toml. Documentation
// comes from the readme named by the manifest, else README.md, else the
// package description.
func (a *Analyser) PackageMetadata(root string) (model.PackageMetadata, error) {
	path := filepath.Join(root, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PackageMetadata{}, &model.ParseError{Path: path, Err: err}
	}

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return model.PackageMetadata{}, &model.ParseError{Path: path, Err: fmt.Errorf("decoding manifest: %w", err)}
	}
	if m.Package.Name == "" {
		return model.PackageMetadata{}, &model.ParseError{Path: path, Err: errNoPackageName}
	}

	return model.PackageMetadata{
		Name:          m.Package.Name,
		Version:       manifestString(m.Package.Version, "0.0.0"),
		Documentation: a.readme(root, m),
	}, nil
}

func (a *Analyser) readme(root string, m cargoManifest) string {
	var candidates []string
	switch r := m.Package.Readme.(type) {
	case string:
		candidates = append(candidates, r)
	case bool:
		if r {
			candidates = append(candidates, "README.md")
		}
	default:
		candidates = append(candidates, "README.md", "README")
	}

	for _, name := range candidates {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err == nil {
			return string(data)
		}
		a.logger.Debug("readme not readable", "file", name, "err", err)
	}
	return manifestString(m.Package.Description, "")
}

// manifestString returns a string field, or "workspace" for a value
// inherited with `field.workspace = true`.
func manifestString(v any, fallback string) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit {
			return "workspace"
		}
	}
	return fallback
}
