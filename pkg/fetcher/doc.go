// Package fetcher drives the resumable page-by-page walk over a GitHub
// repository's discussion category.
//
// The controller restores its cursor state from a checkpoint store, fetches
// pages sequentially through the gh executor, appends records in arrival
// order (creation-ascending, as requested from the API), and persists a
// checkpoint after every page. On normal completion it writes the final
// archive (plain and gzip) and clears the checkpoint.
//
// Example usage:
//
//	cfg := fetcher.Config{
//		Owner:      "helloamger",
//		Repo:       "JiNan-Company-Rating",
//		CategoryID: "DIC_kwDORKDfUs4C19oY",
//	}
//	store := checkpoint.NewFileStore("discussions_checkpoint.json")
//	ctrl := fetcher.New(cfg, gh.New(gh.DefaultConfig(token)), store)
//	discussions, err := ctrl.Run(ctx)
//
// The controller distinguishes three outcomes per page: a usable page, a
// stop signal (executor retry exhaustion or a payload without a data
// section; progress is persisted and the walk ends without an error), and
// a failure (anything else; progress is persisted and the cause
// propagates). Cancellation is cooperative: it is observed at iteration
// boundaries and during timed waits, always after the current page's
// checkpoint write.
package fetcher
