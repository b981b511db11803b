package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/elinorkade/archivefs/zip"
)

func buildExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archive> <path> <dest>",
		Short: "Extract one archive entry to a local file",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			archivePath, entryPath, dest := args[0], args[1], args[2]

			arc, err := openArchive(archivePath)
			if err != nil {
				return err
			}
			defer arc.Close()

			isDir, err := arc.IsDirectory(entryPath)
			if err != nil {
				return err
			}
			if isDir {
				return fmt.Errorf("archivefs extract: %q is a directory", entryPath)
			}

			f, err := arc.OpenRead(entryPath)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			out, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer out.Close()

			size := f.FileLength()
			bar := progressbar.DefaultBytes(size, fmt.Sprintf("extracting %s (%s)", entryPath, humanize.Bytes(uint64(size))))

			buf := make([]byte, 64*1024)
			for {
				n, err := f.Read(buf, 1, len(buf))
				if n > 0 {
					if _, werr := out.Write(buf[:n]); werr != nil {
						return werr
					}
					bar.Add(n)
				}
				if err != nil {
					if errors.Is(err, zip.ErrPastEOF) {
						break
					}
					return fmt.Errorf("archivefs extract: %w", err)
				}
				if f.Eof() {
					break
				}
			}
			return bar.Finish()
		},
	}
}
