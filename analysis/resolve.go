package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PackageScheme prefixes every package-qualified reference.
const PackageScheme = "package:"

var (
	importPattern = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)
	partPattern   = regexp.MustCompile(`part\s+['"]([^'"]+)['"]`)

	errInvalidUTF8 = errors.New("content is not valid UTF-8")
)

// Resolver maps textual import and part declarations to files within the project.
type Resolver struct {
	libRoot         string
	ownPrefix       string
	builtinPrefixes []string
}

// FileImports is the outcome of resolving a single file.
// When Err is set, the file could not be read and Imports is empty.
type FileImports struct {
	Path    string
	Imports map[string]struct{}
	Err     error
}

// NewResolver creates resolver for files under libRoot belonging to packageName.
// References starting with any of builtinPrefixes (e.g. "dart:") are never resolved.
func NewResolver(libRoot, packageName string, builtinPrefixes []string) *Resolver {
	return &Resolver{
		libRoot:         normalizePath(libRoot),
		ownPrefix:       PackageScheme + packageName + "/",
		builtinPrefixes: builtinPrefixes,
	}
}

// Declarations returns targets of all import declarations followed by all part declarations, in text order.
// It is a plain text scan, declarations inside comments or strings are picked up too.
func Declarations(content []byte) []string {
	targets := make([]string, 0)
	for _, re := range []*regexp.Regexp{importPattern, partPattern} {
		for _, m := range re.FindAllSubmatch(content, -1) {
			targets = append(targets, string(m[1]))
		}
	}
	return targets
}

// Resolve turns target referenced from fromFile into a normalized absolute path.
// It returns false for references into other packages or built-in libraries.
func (r *Resolver) Resolve(fromFile, target string) (string, bool) {
	if rest, ok := strings.CutPrefix(target, r.ownPrefix); ok {
		return filepath.Join(r.libRoot, filepath.FromSlash(rest)), true
	}
	if strings.HasPrefix(target, PackageScheme) {
		return "", false
	}
	for _, prefix := range r.builtinPrefixes {
		if strings.HasPrefix(target, prefix) {
			return "", false
		}
	}
	target = filepath.FromSlash(target)
	if filepath.IsAbs(target) {
		return filepath.Clean(target), true
	}
	return filepath.Join(filepath.Dir(normalizePath(fromFile)), target), true
}

// ResolveContent resolves every declaration found in content of the file at path.
func (r *Resolver) ResolveContent(path string, content []byte) map[string]struct{} {
	imports := make(map[string]struct{})
	for _, target := range Declarations(content) {
		if resolved, ok := r.Resolve(path, target); ok {
			imports[resolved] = struct{}{}
		}
	}
	return imports
}

// ResolveFile reads file at path and resolves its declarations.
// Read or decoding failures are reported through FileImports.Err, never as a panic or partial result.
func (r *Resolver) ResolveFile(path string) FileImports {
	fi := FileImports{
		Path:    normalizePath(path),
		Imports: map[string]struct{}{},
	}
	content, err := os.ReadFile(fi.Path)
	if err != nil {
		fi.Err = fmt.Errorf("failed to read file: %w", err)
		return fi
	}
	if !utf8.Valid(content) {
		fi.Err = errInvalidUTF8
		return fi
	}
	fi.Imports = r.ResolveContent(fi.Path, content)
	return fi
}

// Targets returns resolved imports sorted.
func (fi FileImports) Targets() []string {
	return sortedKeys(fi.Imports)
}
