package generate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/contaixt/laibrary/internal/discover"
)

// cacheHeader is the first line of a cache file. It records the options the
// output was produced with.
func cacheHeader(language, format string) string {
	return "laibrary-cache language=" + language + " format=" + format + "\n"
}

// readCache returns the cached output if the file starts with header.
func readCache(path, header string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.CutPrefix(string(data), header)
}

// cacheIsFresh reports whether the cache file is newer than every source
// file and every top-level file of root, which covers the package manifest
// and readme.
func cacheIsFresh(cachePath, root string, files []discover.FileEntry) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(root, e.Name()))
		}
	}

	cacheAbs, _ := filepath.Abs(cachePath)
	for _, p := range paths {
		if p == cacheAbs {
			continue
		}
		fi, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}
