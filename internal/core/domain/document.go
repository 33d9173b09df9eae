package domain

import "path/filepath"

// Document is a source file reduced to plain text, ready for chunking.
type Document struct {
	// Path is the location the text was extracted from.
	Path string

	// Filename is the base name of Path.
	Filename string

	// Content is the extracted plain text.
	Content string

	// Metadata contains extractor-specific key-value pairs (page count, title).
	Metadata map[string]any
}

// NewDocument creates a document for text extracted from path.
func NewDocument(path, content string) *Document {
	return &Document{
		Path:     path,
		Filename: filepath.Base(path),
		Content:  content,
		Metadata: make(map[string]any),
	}
}
