package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/fsutil"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor HCL.
var ErrUnsupportedFormat = errors.New("unsupported draft format")

var extensions = []string{".yaml", ".yml", ".hcl"}

// Load reads the draft at path, a single file or a directory of files.
func Load(ctx context.Context, path string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	if !info.IsDir() {
		logger.Debug("Loading draft file.", "path", path)
		return LoadFile(path)
	}

	files, err := fsutil.FindFilesByExtension(path, extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find draft files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No draft files found in path, returning empty draft.", "path", path)
		return map[string]any{}, nil
	}

	merged := map[string]any{}
	for _, file := range files {
		doc, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		merge(merged, doc)
	}
	logger.Debug("Draft directory loaded.", "path", path, "files", len(files))
	return merged, nil
}

// LoadFile reads one draft file, choosing the parser by extension.
func LoadFile(path string) (map[string]any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, src)
	case ".hcl":
		return ParseHCL(path, src)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// merge copies src into dst. Nested maps merge recursively; any other value
// in src replaces the one in dst.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}
