package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"featurepipe/internal/config"
	"featurepipe/internal/datasource"
)

// ReadList returns the non-empty, non-comment lines of a text file in order.
// Lines starting with '#' after trimming are comments.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sources resolves a file source config to the inputs to read. A list file
// yields one source per entry; relative entries are taken relative to the
// list file's directory.
func Sources(cfg config.SourceFile) ([]datasource.Source, error) {
	if cfg.List == "" {
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source: path or list is required")
		}
		return []datasource.Source{NewLocal(cfg.Path)}, nil
	}
	paths, err := ReadList(cfg.List)
	if err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("source list %s is empty", cfg.List)
	}
	dir := filepath.Dir(cfg.List)
	out := make([]datasource.Source, len(paths))
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out[i] = NewLocal(p)
	}
	return out, nil
}
