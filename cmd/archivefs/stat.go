package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func buildStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <archive> <path>",
		Short: "Print directory/symlink/mtime information for an archive entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			arc, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer arc.Close()

			name := args[1]
			exists := arc.Exists(name)

			// A directory implied only by the names inside it has no entry
			// of its own: it is reported as a directory and never a symlink.
			isDir, err := arc.IsDirectory(name)
			if err != nil {
				if !exists {
					return fmt.Errorf("archivefs stat: %q: no such entry", name)
				}
				return err
			}
			isSym := false
			if exists {
				isSym, err = arc.IsSymLink(name)
				if err != nil {
					return err
				}
			}
			mtime := arc.GetLastModTime(name)

			fmt.Printf("name:      %s\n", name)
			fmt.Printf("directory: %v\n", isDir)
			fmt.Printf("symlink:   %v\n", isSym)
			if mtime >= 0 {
				fmt.Printf("modified:  %s\n", time.Unix(mtime, 0).Format(time.RFC3339))
			}
			return nil
		},
	}
}
