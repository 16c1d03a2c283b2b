package chunk

// Snippet and chunking defaults.
const (
	// DefaultSnippetLength is the maximum snippet length in characters.
	DefaultSnippetLength = 160

	// chunkIDLength is the number of hex characters kept from the
	// SHA-256 of (relPath, offset). 64 bits is plenty for corpus-scale
	// uniqueness.
	chunkIDLength = 16
)

// Chunk is a retrievable unit of content cut from one document, carrying
// the provenance the index needs to present results.
type Chunk struct {
	// ID is SHA256(relPath + offset), truncated. Stable across rebuilds
	// of an unchanged corpus.
	ID string

	// Href is the display link: document path without extension,
	// anchored to the section heading when one exists.
	Href string

	// RelPath is the source path relative to the corpus root.
	RelPath string

	// Title, Date, Tags are copied from the owning document.
	Title string
	Date  string
	Tags  []string

	// Snippet is the leading text of the chunk, whitespace-collapsed.
	Snippet string

	// Text is the full chunk text handed to the index builder.
	// It is not persisted.
	Text string
}
