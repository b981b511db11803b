package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elinorkade/archivefs/archivehost"
)

func buildLsCommand() *cobra.Command {
	var omitSymlinks bool
	cmd := &cobra.Command{
		Use:   "ls <archive> [dir]",
		Short: "List the direct children of a directory inside an archive",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			arc, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer arc.Close()

			var names archivehost.StringList
			if err := arc.EnumerateFiles(dir, omitSymlinks, &names); err != nil {
				return err
			}
			for name := range names.All {
				fmt.Println(name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&omitSymlinks, "no-symlinks", false, "omit symbolic links from the listing")
	return cmd
}
