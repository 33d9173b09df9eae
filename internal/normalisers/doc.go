// Package normalisers reduces source files to plain text.
//
// Each subpackage handles one family of formats and implements
// driven.TextExtractor. Registry selects an extractor by file extension and
// implements driven.FileTextExtractor for the ingestion service.
package normalisers
