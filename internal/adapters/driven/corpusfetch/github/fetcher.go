// Package github implements the corpus fetcher against the GitHub
// contents API. Reference .txt files are downloaded from public
// repositories with an anonymous client, throttled to respect the
// unauthenticated rate limit.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxFileSize skips reference files above this size. The contents
	// API inlines base64 content only below 1MB anyway.
	maxFileSize = 1024 * 1024
)

// Ensure Fetcher implements the interface.
var _ driven.CorpusFetcher = (*Fetcher)(nil)

// Fetcher downloads .txt reference files from public repositories.
// Anonymous access is enough for the public regulatory reference repos
// a corpus is built from, so no token plumbing exists here.
type Fetcher struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewFetcher creates an anonymous GitHub corpus fetcher.
func NewFetcher() *Fetcher {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	return &Fetcher{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
	}
}

// FetchTextFiles downloads the .txt files under path in owner/repo at
// ref into destDir and returns the local paths written, in listing
// order. An empty ref means the repository default branch; an empty
// path means the repository root. Subdirectories are not descended
// into. Zero matching files is not an error.
func (f *Fetcher) FetchTextFiles(ctx context.Context, owner, repo, ref, path, destDir string) ([]string, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create corpus directory: %w", err)
	}

	entries, err := f.listContents(ctx, owner, repo, ref, path)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.GetName()), ".txt") {
			continue
		}
		if entry.GetSize() > maxFileSize {
			continue
		}

		content, err := f.fetchFile(ctx, owner, repo, ref, entry.GetPath())
		if err != nil {
			return written, fmt.Errorf("fetch %s: %w", entry.GetPath(), err)
		}

		local := filepath.Join(destDir, filepath.Base(entry.GetName()))
		if err := os.WriteFile(local, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", local, err)
		}
		written = append(written, local)
	}

	return written, nil
}

// listContents returns the directory listing for path, or a single-entry
// slice when path names a file directly.
func (f *Fetcher) listContents(ctx context.Context, owner, repo, ref, path string) ([]*gh.RepositoryContent, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	file, dir, resp, err := f.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, wrapError(err, "list contents")
	}
	f.updateRateLimit(resp)

	if file != nil {
		return []*gh.RepositoryContent{file}, nil
	}
	return dir, nil
}

// fetchFile downloads and decodes one file's content.
func (f *Fetcher) fetchFile(ctx context.Context, owner, repo, ref, path string) (string, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := f.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return "", wrapError(err, "get contents")
	}
	f.updateRateLimit(resp)

	if content == nil {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, nil
}

// updateRateLimit feeds response headers into the rate limiter.
func (f *Fetcher) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	f.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to domain errors where a sentinel
// exists.
func wrapError(err error, operation string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: github %s: quota resets %s",
			domain.ErrRateLimited, operation, rateErr.Rate.Reset.Format(time.RFC3339))
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: github %s: secondary limit hit", domain.ErrRateLimited, operation)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
