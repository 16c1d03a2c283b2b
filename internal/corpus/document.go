// Package corpus reads the Markdown source tree: directory scanning,
// frontmatter parsing, and the Document model handed to the chunker.
package corpus

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Regex patterns for markdown parsing.
var (
	// Matches frontmatter: ---\n...\n---
	frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.+?)\n---\n*`)

	// Matches the first top-level heading: # Title
	headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Document is a Markdown source identified by its relative path.
// Documents are immutable once indexed; re-indexing replaces them wholesale.
type Document struct {
	RelPath string
	Title   string
	Date    string
	Tags    []string
	Body    string
}

// frontmatter is the YAML header schema. Unknown keys are ignored.
type frontmatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// Parse builds a Document from raw Markdown content.
//
// Title resolution order: frontmatter `title`, first `# ` heading,
// filename stem. Tags are normalized (lowercased, trimmed, deduplicated).
// A malformed frontmatter block is stripped and logged, not fatal.
func Parse(relPath string, content []byte) *Document {
	doc := &Document{RelPath: relPath, Body: string(content)}

	if match := frontmatterPattern.FindStringSubmatch(doc.Body); match != nil {
		var fm frontmatter
		if err := yaml.Unmarshal([]byte(match[1]), &fm); err != nil {
			slog.Warn("frontmatter_malformed",
				slog.String("path", relPath),
				slog.String("error", err.Error()))
		} else {
			doc.Title = strings.TrimSpace(fm.Title)
			doc.Date = strings.TrimSpace(fm.Date)
			doc.Tags = NormalizeTags(fm.Tags)
		}
		doc.Body = doc.Body[len(match[0]):]
	}

	if doc.Title == "" {
		if match := headingPattern.FindStringSubmatch(doc.Body); match != nil {
			doc.Title = strings.TrimSpace(match[1])
		}
	}
	if doc.Title == "" {
		base := filepath.Base(relPath)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return doc
}

// NormalizeTags lowercases, trims, deduplicates and sorts tags.
// Order is irrelevant to the data model; sorting keeps rebuilds byte-identical.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}
