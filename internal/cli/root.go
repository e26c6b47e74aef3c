package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rpk/internal/adapters"
	"rpk/internal/app"
	"rpk/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "RPK"

// fatalExitCode is the single reserved status for every unrecoverable
// condition: unreachable server with no cache, dependency install
// failure, invalid archive, missing configuration.
const fatalExitCode = 123

// notFoundExitCode distinguishes "no such package" from fatal
// conditions so callers can handle it.
const notFoundExitCode = 1

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Msg(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rpk",
		Short:         "Run and import packages directly from a remote server",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initConfig()
			setupLogging(viper.GetString("log_level"))
		},
	}
	// All lookups go through viper, so the flags are bound rather than
	// stored anywhere.
	cmd.PersistentFlags().String("config", adapters.DefaultSettingsPath, "Config file path")
	cmd.PersistentFlags().String("log-level", "info", "Log level")
	cmd.PersistentFlags().String("cache-root", "", "Cache root directory (default ~/.cache/rpk)")
	cmd.PersistentFlags().Bool("debug", false, "Mirror sync log messages to stderr")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("cache_root", cmd.PersistentFlags().Lookup("cache-root"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newWatchCommand())
	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService loads the client settings and wires the sync engine.
// The settings file is the sole source of the shared secret and server
// address; a missing file or key is unrecoverable.
func newAppService() (app.Service, error) {
	settings, err := loadSettings()
	if err != nil {
		return app.Service{}, err
	}
	return app.NewService(settings, viper.GetString("cache_root"), viper.GetBool("debug"))
}

func loadSettings() (types.Settings, error) {
	path := viper.GetString("config")
	if strings.TrimSpace(path) == "" {
		path = adapters.DefaultSettingsPath
	}
	return adapters.NewSettingsFileAdapter().Load(path)
}

func exitCodeForError(err error) int {
	if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
		return notFoundExitCode
	}
	return fatalExitCode
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
