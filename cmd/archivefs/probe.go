package main

import (
	"fmt"
	"os"

	"github.com/mholt/archives"
	"github.com/spf13/cobra"
)

func buildProbeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <path>",
		Short: "Report whether path is a readable ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			arc, err := openArchive(path)
			if err == nil {
				fmt.Printf("%s: zip archive, %d entries\n", path, arc.Len())
				return arc.Close()
			}

			f, ferr := os.Open(path)
			if ferr != nil {
				return ferr
			}
			defer f.Close()

			format, _, ierr := archives.Identify(cmd.Context(), path, f)
			if ierr != nil || format == nil {
				fmt.Printf("%s: not a recognized archive format (%v)\n", path, err)
				return nil
			}
			fmt.Printf("%s: not a ZIP archive; looks like %s instead\n", path, format.Extension())
			return nil
		},
	}
}
