package scraper

import (
	"fmt"

	"github.com/xhad/aibench/internal/models"
)

// Result is the outcome of fetching one URL. It is either Fetched or
// FetchFailed; both always yield at least one document.
type Result interface {
	Documents() []models.Document
	Failed() bool
}

type Fetched struct {
	Source string
	Docs   []models.Document
}

func (f Fetched) Documents() []models.Document {
	if len(f.Docs) == 0 {
		return []models.Document{{Source: f.Source}}
	}
	return f.Docs
}

func (f Fetched) Failed() bool { return false }

type FailureKind int

const (
	// FailureContent covers any failure on the web-page path.
	FailureContent FailureKind = iota
	// FailurePDF covers download and parse failures on the PDF path.
	FailurePDF
	// FailureNoPDFParser means no PDF parser is configured.
	FailureNoPDFParser
)

type FetchFailed struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (f FetchFailed) Failed() bool { return true }

func (f FetchFailed) Error() string { return f.message() }

func (f FetchFailed) Unwrap() error { return f.Err }

func (f FetchFailed) Documents() []models.Document {
	return []models.Document{{
		Source:  f.Source,
		Content: f.message(),
		Metadata: map[string]interface{}{
			"error": true,
		},
	}}
}

func (f FetchFailed) message() string {
	switch f.Kind {
	case FailureNoPDFParser:
		return fmt.Sprintf("This is a PDF document from %s. PDF processing requires a PDF parser, which is not available in this build.", f.Source)
	case FailurePDF:
		return fmt.Sprintf("Error loading PDF from %s: %v", f.Source, f.Err)
	default:
		return fmt.Sprintf("Error loading content from %s: %v", f.Source, f.Err)
	}
}
