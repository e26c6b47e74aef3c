package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rpk/internal/types"
)

type watchOptions struct {
	Lib bool
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <name>",
		Short: "Block until the remote publishes a new package version",
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
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			info, err := service.Watch(ctx, desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated to version %s\n", args[0], info.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Lib, "lib", false, "Treat the package as a library instead of a runnable")
	return cmd
}
