// Package main is the entry point for the discussions-fetch CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/helloamger/discussions-archiver/pkg/checkpoint"
	"github.com/helloamger/discussions-archiver/pkg/fetcher"
	"github.com/helloamger/discussions-archiver/pkg/gh"
	"github.com/helloamger/discussions-archiver/pkg/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "discussions-fetch",
	Short: "Archive all discussions of a GitHub repository category",
	Long: `discussions-fetch walks a GitHub repository's discussion category page by
page through the GraphQL API and writes one consolidated JSON archive plus
a gzip copy.

Progress is checkpointed after every page, so an interrupted run (Ctrl-C,
rate limiting, network failure) resumes where it left off on the next
invocation. The checkpoint is removed once the archive has been written.

The GitHub token is read from the GITHUB_TOKEN environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Version = version

	rootCmd.Flags().String("owner", "helloamger", "repository owner")
	rootCmd.Flags().String("repo", "JiNan-Company-Rating", "repository name")
	rootCmd.Flags().String("category", "DIC_kwDORKDfUs4C19oY", "discussion category node ID")
	rootCmd.Flags().String("output", "discussions.json", "archive output path")
	rootCmd.Flags().String("gzip", "", "gzip output path (default: <output>.gz)")
	rootCmd.Flags().String("checkpoint", "discussions_checkpoint.json", "checkpoint file path")
	rootCmd.Flags().String("redis", "", "Redis address for the checkpoint (empty: use the file backend)")
	rootCmd.Flags().String("redis-key", checkpoint.DefaultRedisKey, "Redis key for the checkpoint")
	rootCmd.Flags().Int("page-size", gh.DefaultPageSize, "discussions requested per page")
	rootCmd.Flags().Int("max-retries", 3, "attempt budget per request")
	rootCmd.Flags().Duration("retry-delay", 5*time.Second, "base delay between retry attempts")
	rootCmd.Flags().Duration("page-interval", fetcher.DefaultPageInterval, "pause between pages")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("pretty", false, "human-readable console logs")

	_ = viper.BindPFlags(rootCmd.Flags())
	_ = viper.BindEnv("token", "GITHUB_TOKEN")
	viper.SetDefault("token", "")
}

func run(cmd *cobra.Command, _ []string) error {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(viper.GetString("log-level")),
		Pretty: viper.GetBool("pretty"),
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gh.New(gh.Config{
		Token:      viper.GetString("token"),
		MaxRetries: viper.GetInt("max-retries"),
		RetryDelay: viper.GetDuration("retry-delay"),
	})

	var store checkpoint.Store
	if addr := viper.GetString("redis"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", addr, err)
		}
		defer rdb.Close()
		store = checkpoint.NewRedisStore(rdb, viper.GetString("redis-key"))
	} else {
		store = checkpoint.NewFileStore(viper.GetString("checkpoint"))
	}

	ctrl := fetcher.New(fetcher.Config{
		Owner:        viper.GetString("owner"),
		Repo:         viper.GetString("repo"),
		CategoryID:   viper.GetString("category"),
		OutputPath:   viper.GetString("output"),
		GzipPath:     viper.GetString("gzip"),
		PageSize:     viper.GetInt("page-size"),
		PageInterval: viper.GetDuration("page-interval"),
	}, client, store)

	discussions, err := ctrl.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nDone. Fetched %d discussions.\n", len(discussions))
	preview(os.Stdout, discussions)

	return nil
}

// preview prints the first five fetched items: ordinal, id, truncated title.
func preview(w io.Writer, discussions []gh.Discussion) {
	if len(discussions) == 0 {
		return
	}

	fmt.Fprintln(w, "\nFirst 5 items:")
	for i, d := range discussions {
		if i >= 5 {
			break
		}
		fmt.Fprintf(w, "  %d. #%d: %s\n", i+1, d.Number, truncate(d.Title, 50))
	}
}

// truncate shortens s to max characters, appending an ellipsis. Counts
// runes, not bytes, so multi-byte titles are not cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
