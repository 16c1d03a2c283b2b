// Package chunk splits Markdown documents into retrievable units.
// Sections are cut at headings; a document without headings is one chunk.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/notelens/notelens/internal/corpus"
)

// headerPattern matches headers: # Title, ## Title, etc.
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// Options configures the chunker behavior.
type Options struct {
	// SnippetLength is the maximum snippet length in characters
	// (default: DefaultSnippetLength).
	SnippetLength int
}

// Chunker cuts documents into heading-delimited chunks.
type Chunker struct {
	options Options
}

// New creates a chunker with default options.
func New() *Chunker {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a chunker with custom options.
func NewWithOptions(opts Options) *Chunker {
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = DefaultSnippetLength
	}
	return &Chunker{options: opts}
}

// Chunk splits a document into an ordered sequence of chunks.
//
// An empty or whitespace-only body yields zero chunks; the document simply
// contributes nothing to the index.
func (c *Chunker) Chunk(doc *corpus.Document) []*Chunk {
	if strings.TrimSpace(doc.Body) == "" {
		return nil
	}

	sections := parseSections(doc.Body)

	chunks := make([]*Chunk, 0, len(sections))
	for _, sec := range sections {
		text := strings.TrimSpace(sec.content)
		if text == "" {
			continue
		}

		offset := len(chunks)
		chunks = append(chunks, &Chunk{
			ID:      chunkID(doc.RelPath, offset),
			Href:    href(doc.RelPath, sec.headerTitle),
			RelPath: doc.RelPath,
			Title:   doc.Title,
			Date:    doc.Date,
			Tags:    doc.Tags,
			Snippet: snippet(text, c.options.SnippetLength),
			Text:    text,
		})
	}

	return chunks
}

// section is a heading-delimited region of the document.
type section struct {
	headerTitle string
	content     string
}

// parseSections splits the body at headings. Content before the first
// heading becomes its own section with an empty title.
func parseSections(body string) []*section {
	var sections []*section
	current := &section{}
	var builder strings.Builder

	flush := func() {
		current.content = builder.String()
		if strings.TrimSpace(current.content) != "" {
			sections = append(sections, current)
		}
		builder.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if match := headerPattern.FindStringSubmatch(line); match != nil {
			flush()
			current = &section{headerTitle: strings.TrimSpace(match[2])}
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	flush()

	return sections
}

// chunkID derives a stable identifier from the document path and the
// chunk's offset within it.
func chunkID(relPath string, offset int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", relPath, offset)))
	return hex.EncodeToString(sum[:])[:chunkIDLength]
}

// href builds the display link: path without extension, anchored to the
// section heading when one exists.
func href(relPath, headerTitle string) string {
	base := "/" + strings.TrimSuffix(relPath, ".markdown")
	base = strings.TrimSuffix(base, ".md")
	if headerTitle == "" {
		return base
	}
	return base + "#" + slugify(headerTitle)
}

// slugPattern matches characters dropped from heading anchors.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// snippet returns the leading text of a chunk with heading markers removed
// and whitespace collapsed.
func snippet(text string, maxLen int) string {
	text = headerPattern.ReplaceAllString(text, "$2")
	fields := strings.Fields(text)
	collapsed := strings.Join(fields, " ")

	runes := []rune(collapsed)
	if len(runes) <= maxLen {
		return collapsed
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}
