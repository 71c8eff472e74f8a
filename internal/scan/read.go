package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docarch/internal/types"
)

// Reader reads documents through an os.Root, so a path can never resolve
// outside the repository (including via symlinks or "..").
type Reader struct {
	root *os.Root
}

// OpenReader locks all reads to dir.
func OpenReader(dir string) (*Reader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("scan: empty root")
	}
	r, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("scan: open root: %w", err)
	}
	return &Reader{root: r}, nil
}

// Read returns the document at the repo-relative path rel. Bytes that are not
// valid UTF-8 are dropped.
func (r *Reader) Read(rel string) (types.RawDocument, error) {
	f, err := r.root.Open(filepath.FromSlash(rel))
	if err != nil {
		return types.RawDocument{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return types.RawDocument{}, err
	}
	if st.IsDir() {
		return types.RawDocument{}, fmt.Errorf("scan: %s is a directory", rel)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return types.RawDocument{}, err
	}
	return types.RawDocument{Path: rel, Text: strings.ToValidUTF8(string(b), "")}, nil
}

func (r *Reader) Close() error {
	if r == nil || r.root == nil {
		return nil
	}
	return r.root.Close()
}
