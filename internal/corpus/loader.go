// Package corpus loads the reference corpus folder and splits it into
// retrieval chunks.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// SplitChunks splits one reference file's content into chunks on blank
// lines. Each surviving chunk is trimmed and prefixed with the source
// file name for traceability in grounding context.
func SplitChunks(fileName, content string) []domain.ReferenceChunk {
	parts := strings.Split(content, "\n\n")
	chunks := make([]domain.ReferenceChunk, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.ReferenceChunk{
			ID:         uuid.New().String(),
			SourceFile: fileName,
			Text:       fmt.Sprintf("[%s] %s", fileName, part),
		})
	}
	return chunks
}

// LoadFolder reads every .txt file in dir (non-recursive, sorted by
// name) and returns the combined chunk list. A missing dir returns
// domain.ErrCorpusUnavailable; a dir with no usable text returns
// domain.ErrEmptyCorpus.
func LoadFolder(dir string) ([]domain.ReferenceChunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCorpusUnavailable
		}
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var chunks []domain.ReferenceChunk
	for _, entry := range entries {
		if entry.IsDir() || !isTextFile(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", entry.Name(), err)
		}
		chunks = append(chunks, SplitChunks(entry.Name(), string(content))...)
	}

	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	return chunks, nil
}

// CountTextFiles returns the number of .txt files in dir, 0 when the
// dir is missing.
func CountTextFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && isTextFile(entry.Name()) {
			count++
		}
	}
	return count
}

func isTextFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}
