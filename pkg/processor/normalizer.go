package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/xhad/aibench/internal/models"
)

const (
	// TruncationTrigger is the combined content length above which a
	// document set is truncated.
	TruncationTrigger = 100000
	// MaxDocumentLength bounds the content of a truncated document.
	MaxDocumentLength = 50000
	// TruncationMarker separates the kept head and tail.
	TruncationMarker = "\n\n[...Document truncated due to length...]\n\n"

	documentSeparator = "\n\n"
)

// Normalize bounds the total size of the documents fetched for one URL.
// Lengths are counted in runes. Sets at or under TruncationTrigger are
// returned as is; larger sets are merged and cut down to MaxDocumentLength
// by keeping a head and a tail around TruncationMarker.
func Normalize(docs []models.Document) []models.Document {
	if len(docs) == 0 {
		return docs
	}

	total := 0
	for _, doc := range docs {
		total += utf8.RuneCountInString(doc.Content)
	}
	if total <= TruncationTrigger {
		return docs
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	content, truncated := Truncate(strings.Join(contents, documentSeparator))

	return []models.Document{{
		Source:    docs[0].Source,
		Title:     docs[0].Title,
		Content:   content,
		Truncated: truncated,
	}}
}

// Truncate keeps the first and last parts of s around TruncationMarker so
// that the result is at most MaxDocumentLength runes. It reports whether s
// was shortened.
func Truncate(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) <= MaxDocumentLength {
		return s, false
	}

	half := MaxDocumentLength / 2
	out := joinHeadTail(runes, half)

	if utf8.RuneCountInString(out) > MaxDocumentLength {
		half = (MaxDocumentLength - utf8.RuneCountInString(TruncationMarker)) / 2
		out = joinHeadTail(runes, half)
	}

	return out, true
}

func joinHeadTail(runes []rune, n int) string {
	var sb strings.Builder
	sb.WriteString(string(runes[:n]))
	sb.WriteString(TruncationMarker)
	sb.WriteString(string(runes[len(runes)-n:]))
	return sb.String()
}
