package corpus

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// markdownExtensions are the file extensions the scanner picks up.
var markdownExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
}

// Scan walks root and returns every readable Markdown document, sorted by
// relative path so index builds traverse the corpus in a deterministic
// order.
//
// Scan never fails: an unreadable root yields an empty corpus, and a file
// that cannot be read is skipped with a warning so one bad file does not
// abort the whole index.
func Scan(root string, exclude []string) []*Document {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		slog.Warn("corpus_root_unreadable", slog.String("root", root))
		return []*Document{}
	}

	var docs []*Document
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("corpus_walk_error",
				slog.String("path", p),
				slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if p != root && (strings.HasPrefix(name, ".") || excluded(name, exclude)) {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := markdownExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		if strings.HasPrefix(name, ".") || excluded(name, exclude) {
			return nil
		}

		content, readErr := os.ReadFile(p)
		if readErr != nil {
			// One bad file must not abort the build.
			slog.Warn("corpus_file_skipped",
				slog.String("path", p),
				slog.String("error", readErr.Error()))
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			rel = p
		}
		docs = append(docs, Parse(filepath.ToSlash(rel), content))
		return nil
	})
	if walkErr != nil {
		slog.Warn("corpus_scan_incomplete", slog.String("error", walkErr.Error()))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })

	slog.Info("corpus_scanned",
		slog.String("root", root),
		slog.Int("documents", len(docs)))
	return docs
}

// excluded reports whether name matches any exclude pattern.
// Invalid patterns are treated as non-matching.
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
