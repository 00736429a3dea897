// Package checkpoint provides durable storage of in-progress fetch state,
// so an interrupted discussion fetch can resume where it left off.
//
// A checkpoint records the accumulated discussions, the pagination cursor,
// and whether more pages remain. The fetch controller overwrites it after
// every page and clears it only after the final archive has been written.
//
// Two backends implement the Store interface:
//
//   - FileStore writes an indented UTF-8 JSON file (the default)
//   - RedisStore keeps the same JSON document under a single Redis key,
//     for runs inside ephemeral containers without a persistent volume
//
// Load failures are non-fatal: a missing or unreadable record
// falls back to the default empty checkpoint, so a corrupted checkpoint
// costs a re-fetch, never a crash.
//
// # Basic Usage
//
//	store := checkpoint.NewFileStore("discussions_checkpoint.json")
//
//	cp, err := store.Load(ctx)
//	if err != nil {
//		// cp is still usable: the default empty checkpoint
//	}
//
//	// ... fetch a page, append records ...
//
//	if err := store.Save(ctx, checkpoint.Snapshot(discussions, cursor, hasMore)); err != nil {
//		// non-fatal: the next page saves again
//	}
//
// # Invariants
//
// Every persisted checkpoint satisfies:
//
//   - total_count == len(discussions)
//   - last_cursor == null whenever has_more == false
//
// Snapshot enforces both; callers should not build Checkpoint values by
// hand on the write path.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - ghfetch_checkpoint_saves_total{backend, status}
//   - ghfetch_checkpoint_loads_total{backend, status}
//   - ghfetch_checkpoint_size_bytes{backend}
package checkpoint
