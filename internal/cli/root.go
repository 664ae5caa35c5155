package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apm-run/apm/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "APM"

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	ProjectRoot string
}

func Execute() {
	root := newRootCommand()
	cmd, err := root.ExecuteC()
	if err != nil {
		os.Exit(exitCodeForError(err, isInstallCommand(cmd)))
	}
}

// isInstallCommand reports whether the top-level command executed was
// "install" — the only command spec.md §6/§8 allows to exit 2 for a
// network/auth failure. Every other command (including deps update,
// which fetches the same way install does) exits 1 for the same
// errbuilder codes.
func isInstallCommand(cmd *cobra.Command) bool {
	for cmd.Parent() != nil && cmd.Parent().Parent() != nil {
		cmd = cmd.Parent()
	}
	return cmd.Name() == "install"
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "apm",
		Short:   "Agent Package Manager — install, compile, and run agent context packages",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.ProjectRoot, "cwd", "", "Project root (default: current directory)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("cwd", cmd.PersistentFlags().Lookup("cwd"))

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newDepsCommand())
	cmd.AddCommand(newCompileCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newPreviewCommand())
	cmd.AddCommand(newListCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	candidates := []string{"apm.config.yaml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "apm", "config.yaml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			viper.SetConfigFile(candidate)
			_ = viper.ReadInConfig()
			return nil
		}
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
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

// newAppService builds the Service against the configured (or current)
// working directory.
func newAppService() app.Service {
	root := viper.GetString("cwd")
	if root == "" {
		if cwd, err := os.Getwd(); err == nil {
			root = cwd
		} else {
			root = "."
		}
	}
	return app.NewService(root)
}

// exitCodeForError maps an errbuilder code to a process exit code per
// spec.md §6/§8: 0 success (handled by the caller), 1 user-visible
// failure, 2 network/auth failure during install specifically. Every
// other command maps CodePermissionDenied/CodeInternal to 1 instead of 2.
func exitCodeForError(err error, isInstall bool) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 1
	case errbuilder.CodeFailedPrecondition:
		return 1
	case errbuilder.CodePermissionDenied:
		if isInstall {
			return 2
		}
		return 1
	case errbuilder.CodeNotFound:
		return 1
	case errbuilder.CodeInternal:
		if isInstall {
			return 2
		}
		return 1
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
