package fetcher

import "github.com/helloamger/discussions-archiver/pkg/gh"

// resultKind tags the outcome of one page-fetch step.
type resultKind int

const (
	// resultPage: a usable page was returned.
	resultPage resultKind = iota

	// resultStopped: the walk should end without an error. Covers
	// executor retry exhaustion and payloads missing the data section.
	resultStopped

	// resultFailed: an unclassified failure that must propagate after
	// the checkpoint is persisted.
	resultFailed
)

// pageResult is the tagged result of fetching one page. Exactly one of
// page or err is meaningful, depending on kind.
type pageResult struct {
	kind resultKind
	page *gh.DiscussionConnection
	err  error
}
