package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>",
		Short: "Synchronize a library package and print its on-disk path",
		Long: "Synchronize a library package and print the resolved path of its " +
			"importable code, for host runtimes that load libraries from disk.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService()
			if err != nil {
				return err
			}
			path, err := service.LibraryPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
