package cli

import (
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <name> [args...]",
		Short: "Synchronize a runnable package and execute its entry point",
		Long: "Synchronize a runnable package and replace the current process with its " +
			"entry point, forwarding all remaining arguments unchanged. On success this " +
			"command never returns.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newAppService()
			if err != nil {
				return err
			}
			return service.Run(cmd.Context(), args[0], args[1:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}
