// Package domain defines the core business entities for Redmark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paragraph: An addressable unit of document text
//   - Finding: A detected compliance issue
//   - Annotation: A directive to write a comment into a document
//   - DocumentReport / AnalysisResult: Per-document and per-run outcomes
//   - ReferenceChunk: A unit of the retrieval corpus
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
