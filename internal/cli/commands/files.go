package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// stdinPath names standard input in path arguments and reports.
const stdinPath = "-"

// sourceFile is one SQL input.
type sourceFile struct {
	Path    string
	Content string
}

// hash returns the content hash used as cache key.
func (f sourceFile) hash() string {
	sum := sha256.Sum256([]byte(f.Content))
	return hex.EncodeToString(sum[:])
}

// collectPaths expands the arguments into .sql file paths. Directories are
// walked recursively, skipping hidden directories. No arguments means the
// current directory.
func collectPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if arg == stdinPath {
			add(stdinPath)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".sql") {
				add(filepath.Clean(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// readSource reads a file, or stdin for "-".
func readSource(path string, stdin io.Reader) (sourceFile, error) {
	var (
		b   []byte
		err error
	)
	if path == stdinPath {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path) //nolint:gosec // G304: paths come from the user
	}
	if err != nil {
		return sourceFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sourceFile{Path: path, Content: string(b)}, nil
}
