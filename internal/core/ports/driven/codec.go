package driven

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// DocumentCodec reads paragraph text out of a binary document format and
// writes annotated copies back. Binary format compatibility is owned
// entirely by the implementation; core depends only on the native
// paragraph ordering surviving a load, append, save cycle.
type DocumentCodec interface {
	// Parse returns the document's raw paragraph texts in native order,
	// including empty paragraphs. Positions in the returned slice are
	// the native indices all findings address.
	Parse(ctx context.Context, path string) ([]string, error)

	// Annotate writes a copy of src to dst with each annotation's
	// comment appended to its target paragraph in a distinguishable
	// style. Annotations addressing an out-of-range index are skipped
	// silently. The source file is never modified.
	Annotate(ctx context.Context, src, dst string, annotations []domain.Annotation) error
}
