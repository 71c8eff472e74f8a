// Package scan finds the markdown documents of a repository and reads them.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Doc is a candidate document.
type Doc struct {
	// Repo-relative path using forward slashes (e.g., "docs/arch.md").
	Path string
	// File size in bytes; 0 when stat fails.
	Size int64
}

// Options narrows which documents are returned.
type Options struct {
	// Exclude holds doublestar patterns matched against repo-relative paths
	// (e.g., "docs/legacy/**", "**/CHANGELOG.md").
	Exclude []string
	// IgnoreDirs adds directory names to the built-in skip list.
	IgnoreDirs []string
	// NoGitignore disables the root .gitignore.
	NoGitignore bool
	// MaxFileSize skips files larger than this many bytes; 0 means no limit.
	MaxFileSize int64
	// OnSkip, when set, is told about every candidate that was left out.
	OnSkip func(path, reason string)
}

var skipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "target": true,
	"build": true, "dist": true, ".next": true, ".cache": true,
	"venv": true, ".venv": true, "__pycache__": true,
}

// IsDocument reports whether name has the markdown extension.
func IsDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

// Documents walks root in lexical order and returns every markdown file.
// Unreadable directories are skipped rather than aborting the walk.
func Documents(root string, opts Options) ([]Doc, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	ignoreDirs := make(map[string]bool, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignoreDirs[d] = true
	}
	var gi *ignore.GitIgnore
	if !opts.NoGitignore {
		gi = loadGitignore(root)
	}
	skip := func(rel, reason string) {
		if opts.OnSkip != nil {
			opts.OnSkip(rel, reason)
		}
	}

	var docs []Doc
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] || ignoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocument(d.Name()) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			skip(rel, "symlink")
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			skip(rel, "gitignored")
			return nil
		}
		if excluded(rel, opts.Exclude) {
			skip(rel, "excluded")
			return nil
		}

		var size int64
		if fi, e := d.Info(); e == nil {
			size = fi.Size()
		}
		if opts.MaxFileSize > 0 && size > opts.MaxFileSize {
			skip(rel, fmt.Sprintf("larger than %d bytes", opts.MaxFileSize))
			return nil
		}
		docs = append(docs, Doc{Path: rel, Size: size})
		return nil
	})
	return docs, err
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
