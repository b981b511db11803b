package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elinorkade/archivefs/zip"
)

func buildCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <archive> <path>",
		Short: "Stream one archive entry to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			arc, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer arc.Close()

			f, err := arc.OpenRead(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			buf := make([]byte, 64*1024)
			for {
				n, err := f.Read(buf, 1, len(buf))
				if n > 0 {
					if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
						return werr
					}
				}
				if err != nil {
					if errors.Is(err, zip.ErrPastEOF) {
						return nil
					}
					return fmt.Errorf("archivefs cat: %w", err)
				}
				if f.Eof() {
					return nil
				}
			}
		},
	}
}
