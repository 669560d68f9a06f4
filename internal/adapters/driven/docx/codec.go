// Package docx implements the document codec for Office Open XML
// word processing files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

const documentEntry = "word/document.xml"

// Codec reads paragraph text out of .docx archives and writes annotated
// copies back. Paragraph indices follow the body's direct children in
// document order, so an index obtained from Parse addresses the same
// paragraph in Annotate. Paragraphs nested inside tables are not
// addressable.
type Codec struct{}

// Compile-time interface check.
var _ driven.DocumentCodec = (*Codec)(nil)

// NewCodec creates a new DOCX codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Parse returns the document's raw paragraph texts in native order,
// including empty paragraphs.
func (c *Codec) Parse(_ context.Context, path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive", domain.ErrInvalidInput)
	}

	content, err := readEntry(reader, documentEntry)
	if err != nil {
		return nil, err
	}

	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed %s", domain.ErrInvalidInput, documentEntry)
	}

	paragraphs := make([]string, len(doc.Body.Paragraphs))
	for i, para := range doc.Body.Paragraphs {
		var text strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				text.WriteString(t.Content)
			}
		}
		paragraphs[i] = text.String()
	}
	return paragraphs, nil
}

// Annotate writes a copy of src to dst with each annotation's comment
// appended to its target paragraph as an italic 9pt run. Annotations
// addressing an out-of-range paragraph index are skipped silently. The
// source file is never modified.
func (c *Codec) Annotate(_ context.Context, src, dst string, annotations []domain.Annotation) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return fmt.Errorf("%w: not a zip archive", domain.ErrInvalidInput)
	}

	content, err := readEntry(reader, documentEntry)
	if err != nil {
		return err
	}

	annotated, err := spliceComments(content, annotations)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, file := range reader.File {
		if file.Name == documentEntry {
			entry, err := writer.Create(file.Name)
			if err != nil {
				return fmt.Errorf("write %s: %w", file.Name, err)
			}
			if _, err := entry.Write(annotated); err != nil {
				return fmt.Errorf("write %s: %w", file.Name, err)
			}
			continue
		}
		if err := writer.Copy(file); err != nil {
			return fmt.Errorf("copy %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalise archive: %w", err)
	}

	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write annotated copy: %w", err)
	}
	return nil
}

// readEntry returns the named archive entry's content.
func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable %s", domain.ErrInvalidInput, name)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable %s", domain.ErrInvalidInput, name)
		}

		return content, nil
	}
	return nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, name)
}

// documentXML mirrors the subset of word/document.xml the codec reads.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

// paragraphSpan records the byte extent of one body-level paragraph
// within document.xml. selfClosing marks the <w:p/> form, which has no
// closing tag to splice before.
type paragraphSpan struct {
	openStart   int64
	openEnd     int64
	closeStart  int64
	selfClosing bool
}

// bodyParagraphs locates every paragraph that is a direct child of the
// document body, in document order. The raw token walk keeps byte
// offsets exact so comment runs can be spliced into the original XML
// without re-serialising it.
func bodyParagraphs(content []byte) ([]paragraphSpan, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		spans    []paragraphSpan
		current  paragraphSpan
		depth    int
		inTarget bool
	)
	for {
		before := decoder.InputOffset()
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			// Body-level paragraphs sit at document > body > p.
			if depth == 3 && !inTarget && t.Name.Local == "p" {
				inTarget = true
				current = paragraphSpan{openStart: before, openEnd: decoder.InputOffset()}
			}
		case xml.EndElement:
			if inTarget && depth == 3 && t.Name.Local == "p" {
				current.closeStart = before
				current.selfClosing = decoder.InputOffset() == before
				spans = append(spans, current)
				inTarget = false
			}
			depth--
		}
	}
	return spans, nil
}

// spliceComments inserts one run per annotation at the end of its
// target paragraph and returns the rewritten document XML. Everything
// outside the touched paragraphs is preserved byte for byte.
func spliceComments(content []byte, annotations []domain.Annotation) ([]byte, error) {
	spans, err := bodyParagraphs(content)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s", domain.ErrInvalidInput, documentEntry)
	}

	inserts := make(map[int][]byte, len(annotations))
	for _, ann := range annotations {
		if ann.ParagraphIndex < 0 || ann.ParagraphIndex >= len(spans) {
			continue
		}
		inserts[ann.ParagraphIndex] = append(inserts[ann.ParagraphIndex], commentRun(ann.Comment)...)
	}
	if len(inserts) == 0 {
		return content, nil
	}

	var out bytes.Buffer
	out.Grow(len(content) + 256*len(inserts))
	cursor := int64(0)
	for i, span := range spans {
		runs, ok := inserts[i]
		if !ok {
			continue
		}

		if span.selfClosing {
			// Expand the empty paragraph into an open/close pair so the
			// comment run has a parent element.
			out.Write(content[cursor:span.openStart])
			openTag := content[span.openStart:span.openEnd]
			out.Write(bytes.TrimSuffix(openTag, []byte("/>")))
			out.WriteByte('>')
			out.Write(runs)
			out.WriteString("</" + openTagName(openTag) + ">")
			cursor = span.openEnd
			continue
		}

		out.Write(content[cursor:span.closeStart])
		out.Write(runs)
		cursor = span.closeStart
	}
	out.Write(content[cursor:])
	return out.Bytes(), nil
}

// commentRun renders a comment as a standalone italic run. Font sizes
// are half-points, so 18 renders at 9pt.
func commentRun(comment string) []byte {
	var b bytes.Buffer
	b.WriteString(`<w:r><w:rPr><w:i/><w:sz w:val="18"/><w:szCs w:val="18"/></w:rPr><w:t xml:space="preserve">`)
	_ = xml.EscapeText(&b, []byte("  [COMMENT: "+comment+"]"))
	b.WriteString(`</w:t></w:r>`)
	return b.Bytes()
}

// openTagName extracts the element name from a raw opening tag.
func openTagName(tag []byte) string {
	name := tag[1:]
	for i, b := range name {
		switch b {
		case ' ', '\t', '\r', '\n', '/', '>':
			return string(name[:i])
		}
	}
	return string(name)
}
