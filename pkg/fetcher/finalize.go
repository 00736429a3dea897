package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// Archive is the final consolidated artifact of a completed fetch.
type Archive struct {
	Repository  string          `json:"repository"`
	CategoryID  string          `json:"category_id"`
	TotalCount  int             `json:"total_count"`
	FetchedAt   string          `json:"fetched_at"`
	Discussions []gh.Discussion `json:"discussions"`
}

// Finalize writes the archive twice: indented JSON at OutputPath for
// humans, and a gzip of the compact encoding at GzipPath for serving.
// Both carry identical logical content; only the physical encoding
// differs. Called only on normal loop completion.
func (c *Controller) Finalize(discussions []gh.Discussion) error {
	if discussions == nil {
		discussions = []gh.Discussion{}
	}

	archive := &Archive{
		Repository:  c.cfg.Repository(),
		CategoryID:  c.cfg.CategoryID,
		TotalCount:  len(discussions),
		FetchedAt:   c.now().Format(time.RFC3339),
		Discussions: discussions,
	}

	pretty, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	if err := os.WriteFile(c.cfg.OutputPath, pretty, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	c.logger.Info().
		Int("total_count", archive.TotalCount).
		Str("path", c.cfg.OutputPath).
		Msg("Archive written")

	compact, err := json.Marshal(archive)
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}

	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("init gzip: %w", err)
	}
	if _, err := gz.Write(compact); err != nil {
		return fmt.Errorf("compress archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress archive: %w", err)
	}

	if err := os.WriteFile(c.cfg.GzipPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write gzip archive: %w", err)
	}

	ratio := (1 - float64(buf.Len())/float64(len(compact))) * 100
	c.logger.Info().
		Str("path", c.cfg.GzipPath).
		Str("compressed_size", humanize.Bytes(uint64(buf.Len()))).
		Str("uncompressed_size", humanize.Bytes(uint64(len(compact)))).
		Str("ratio", fmt.Sprintf("%.1f%%", ratio)).
		Msg("Gzip archive written")

	return nil
}
