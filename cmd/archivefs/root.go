package main

import (
	"github.com/spf13/cobra"

	"github.com/elinorkade/archivefs/archivehost"
	"github.com/elinorkade/archivefs/internal/config"
	"github.com/elinorkade/archivefs/internal/indexcache"
	"github.com/elinorkade/archivefs/zip"
)

var (
	cfg        config.Config
	indexStore *indexcache.Store
)

func buildRootCommand(c config.Config, idx *indexcache.Store) *cobra.Command {
	cfg = c
	indexStore = idx
	return &cobra.Command{
		Use:   "archivefs",
		Short: "Inspect and extract read-only ZIP archives without unpacking them",
		Long: `archivefs treats a ZIP archive as a browsable, read-only filesystem:
list its contents, stat an entry, stream a file to stdout, or extract one
entry to disk, all without ever writing a temp directory of unpacked files.

Only STORE and DEFLATE entries are readable; ZIP64, multi-disk archives,
encryption, and every other compression method are rejected as unsupported.`,
	}
}

// openArchive is every subcommand's single entry point for turning an
// archive path on the command line into a *zip.Archive: it honors
// ARCHIVEFS_INDEX_CACHE_DIR (via indexStore, nil when unset) and
// ARCHIVEFS_CHECKPOINT_BLOCKS, so the config package's knobs actually
// reach the archives this binary opens.
func openArchive(path string) (*zip.Archive, error) {
	arc, err := archivehost.OpenArchiveCached(path, indexStore)
	if err != nil {
		return nil, err
	}
	arc.SetCheckpointCacheSize(cfg.CheckpointBlocks)
	return arc, nil
}
