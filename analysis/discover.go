package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/denormal/go-gitignore"
	"github.com/gobwas/glob"
)

// DiscoverOptions narrows which files DiscoverFiles reports.
type DiscoverOptions struct {
	// Extension every reported file name has to end with, e.g. ".dart".
	Extension string
	// Exclude holds glob patterns matched against the slash separated path relative to the root.
	Exclude []string
	// IgnoreFile is a gitignore-style file. Relative paths are resolved against the root.
	// Missing file is not an error.
	IgnoreFile string
	Logger     *slog.Logger
}

// DiscoverFiles walks root recursively (hidden directories included) and returns normalized absolute paths
// of all files ending with the configured extension, sorted.
// A missing or unreadable root is not an error, it only yields an empty result.
func DiscoverFiles(ctx context.Context, root string, opts DiscoverOptions) ([]string, error) {
	if opts.Extension == "" {
		return nil, errors.New("no file extension provided")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	excludes := make([]glob.Glob, 0, len(opts.Exclude))
	for _, p := range opts.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		excludes = append(excludes, g)
	}

	absRoot := normalizePath(root)
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		logger.Warn("Library root is not a readable directory, nothing to analyze", "root", absRoot, "error", err)
		return []string{}, nil
	}

	ignore, err := loadIgnoreFile(absRoot, opts.IgnoreFile)
	if err != nil {
		logger.Warn("Failed to load ignore file, continuing without it", "file", opts.IgnoreFile, "error", err)
	}

	// Trailing separator makes WalkDir follow a symlinked root, children paths stay under the link.
	walkRoot := absRoot
	if !strings.HasSuffix(walkRoot, string(filepath.Separator)) {
		walkRoot += string(filepath.Separator)
	}

	files := make([]string, 0)
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Partial results are fine, just skip what cannot be read.
			logger.Warn("Failed to read path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if path == walkRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(excludes, rel) || (ignore != nil && isIgnored(ignore, path, d.IsDir())) {
			logger.Debug("Excluded from analysis", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), opts.Extension) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

func loadIgnoreFile(root, ignoreFile string) (gitignore.GitIgnore, error) {
	if ignoreFile == "" {
		return nil, nil
	}
	if !filepath.IsAbs(ignoreFile) {
		ignoreFile = filepath.Join(root, ignoreFile)
	}
	if _, err := os.Stat(ignoreFile); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return gitignore.NewFromFile(ignoreFile)
}

func isIgnored(ignore gitignore.GitIgnore, absPath string, isDir bool) bool {
	m := ignore.Absolute(absPath, isDir)
	return m != nil && m.Ignore()
}

func matchesAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
