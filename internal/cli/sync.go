package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rpk/internal/types"
)

type syncOptions struct {
	Lib bool
}

func newSyncCommand() *cobra.Command {
	opts := syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync <name>",
		Short: "Synchronize a package against the remote server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService()
			if err != nil {
				return err
			}
			desc := types.Descriptor{Name: args[0], Kind: types.KindRun}
			if opts.Lib {
				desc.Kind = types.KindLib
			}
			manifest, updated, err := service.Sync(cmd.Context(), desc)
			if err != nil {
				return err
			}
			if updated {
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s to version %s\n", args[0], manifest.Version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date at version %s\n", args[0], manifest.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Lib, "lib", false, "Treat the package as a library instead of a runnable")
	return cmd
}
