package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeusData/unminify/internal/lang"
)

// IGNORE_PATTERNS are directory names to skip during discovery. Build output
// directories (dist, build, out) are not skipped: that is where bundles live.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true,
	".next": true, ".npm": true, ".nuxt": true, ".nyc_output": true,
	".parcel-cache": true, ".pnpm-store": true, ".svn": true,
	".turbo": true, ".vscode": true, ".yarn": true,
	"bower_components": true, "coverage": true, "node_modules": true,
	"jspm_packages": true,
}

// IGNORE_SUFFIXES are file suffixes to skip.
var IGNORE_SUFFIXES = []string{
	".d.ts", ".d.mts", ".d.cts", ".map", ".tmp", "~",
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to the input root, slash separated
	Language lang.Language // detected dialect
	Size     int64
}

// Options configures file discovery.
type Options struct {
	IgnoreFile string   // path to an ignore file (default <root>/.unminifyignore)
	Exclude    []string // extra glob patterns, matched against names and relative paths
	SkipDir    string   // absolute directory never descended into, typically the output
}

// shouldSkip returns true if the entry matches the built-in or extra ignore patterns.
func shouldSkip(name, rel string, extraIgnore []string) bool {
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks an input tree and returns every JavaScript-family file. A
// path naming a single file yields just that file.
func Discover(ctx context.Context, root string, opts *Options) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		l, ok := lang.LanguageForExtension(filepath.Ext(root))
		if !ok {
			l = lang.JavaScript
		}
		return []FileInfo{{Path: root, RelPath: filepath.Base(root), Language: l, Size: st.Size()}}, nil
	}

	ignPath := opts.IgnoreFile
	if ignPath == "" {
		ignPath = filepath.Join(root, ".unminifyignore")
	}
	extraIgnore, _ := loadIgnoreFile(ignPath)
	extraIgnore = append(extraIgnore, opts.Exclude...)

	skipDir := ""
	if opts.SkipDir != "" {
		skipDir, _ = filepath.Abs(opts.SkipDir)
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path == root {
				return nil
			}
			if IGNORE_PATTERNS[info.Name()] || path == skipDir || shouldSkip(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		for _, suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}
		if shouldSkip(info.Name(), rel, extraIgnore) {
			return nil
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Language: l,
			Size:     info.Size(),
		})
		return nil
	})

	return files, err
}

// OutputPath maps a discovered file to its location under outDir, keeping
// the file's position relative to the input root.
func OutputPath(outDir string, f FileInfo) string {
	return filepath.Join(outDir, filepath.FromSlash(f.RelPath))
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
