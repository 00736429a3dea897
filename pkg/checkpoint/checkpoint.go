package checkpoint

import (
	"context"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// Checkpoint is a durable snapshot of fetch progress.
type Checkpoint struct {
	// Discussions are the records accumulated so far, append-only across
	// pages, in creation-ascending order.
	Discussions []gh.Discussion `json:"discussions"`

	// LastCursor is the pagination cursor to resume from. Nil whenever
	// HasMore is false.
	LastCursor *string `json:"last_cursor"`

	// HasMore reports whether pages remain to be fetched.
	HasMore bool `json:"has_more"`

	// TotalCount equals len(Discussions) at every persisted checkpoint.
	TotalCount int `json:"total_count"`
}

// New returns the default empty checkpoint: nothing fetched, no cursor,
// more pages assumed.
func New() *Checkpoint {
	return &Checkpoint{
		Discussions: []gh.Discussion{},
		HasMore:     true,
	}
}

// Snapshot builds a checkpoint from in-memory fetch state, enforcing the
// persistence invariants: TotalCount tracks the accumulator length and the
// cursor is dropped once the walk is complete.
func Snapshot(discussions []gh.Discussion, cursor *string, hasMore bool) *Checkpoint {
	if discussions == nil {
		discussions = []gh.Discussion{}
	}
	if !hasMore {
		cursor = nil
	}
	return &Checkpoint{
		Discussions: discussions,
		LastCursor:  cursor,
		HasMore:     hasMore,
		TotalCount:  len(discussions),
	}
}

// Consistent reports whether the checkpoint satisfies its invariants.
// Used on load to reject records written by a buggy or foreign writer.
func (c *Checkpoint) Consistent() bool {
	if c.TotalCount != len(c.Discussions) {
		return false
	}
	if !c.HasMore && c.LastCursor != nil {
		return false
	}
	return true
}

// Store is durable storage for a single checkpoint record.
type Store interface {
	// Load reads the stored checkpoint. A missing or unreadable record
	// returns the default empty checkpoint together with the cause; the
	// returned checkpoint is always usable.
	Load(ctx context.Context) (*Checkpoint, error)

	// Save overwrites the stored checkpoint.
	Save(ctx context.Context, cp *Checkpoint) error

	// Clear removes the stored checkpoint. Clearing an absent record is
	// not an error.
	Clear(ctx context.Context) error
}
