package models

// Document is the unit handed from the fetcher to the normalizer and on to
// extraction. Source is always set, even when Content is a synthetic error.
type Document struct {
	Source    string
	Title     string
	Content   string
	Truncated bool
	Metadata  map[string]interface{}
}

// Chunk is a bounded slice of a document's content. Overlap is the leading
// part of Content shared with the previous chunk of the same document.
type Chunk struct {
	Source  string `json:"source"`
	Index   int    `json:"index"`
	Content string `json:"content"`
	Overlap string `json:"-"`
}

type ProcessedDocument struct {
	Document
	Chunks []Chunk
}

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
