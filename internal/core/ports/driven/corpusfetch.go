package driven

import "context"

// CorpusFetcher downloads reference text files from a remote source into
// a local corpus folder.
type CorpusFetcher interface {
	// FetchTextFiles downloads the .txt files under path in the given
	// repository (owner/name at ref, empty ref = default branch) into
	// destDir and returns the local paths written.
	FetchTextFiles(ctx context.Context, owner, repo, ref, path, destDir string) ([]string, error)
}
