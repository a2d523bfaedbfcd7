// Package registry holds the state shared by the lxdremote commands: the
// command list, the global options and the connection context.
package registry

import (
	"context"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ExecErrorCodeGeneric is the exit code of a failed lxdremote command.
const ExecErrorCodeGeneric = 125

type CliCommand struct {
	Command *cobra.Command
	Parent  *cobra.Command
}

// GlobalOptions are the values of the root command's persistent flags.
type GlobalOptions struct {
	URI        string
	ConfigPath string
	LogLevel   string
}

var (
	Commands []CliCommand

	Options GlobalOptions
	Config  *config.Config

	cliCtx   context.Context
	exitCode = 0
)

func SetExitCode(code int) {
	exitCode = code
}

func GetExitCode() int {
	return exitCode
}

// Connect reads the configuration and opens the connection used by every
// command. --url wins over the socket of the configuration file.
func Connect(ctx context.Context) error {
	cfg, err := config.ReadConfig(Options.ConfigPath)
	if err != nil {
		return err
	}
	Config = cfg
	if Options.URI != "" {
		cliCtx, err = bindings.NewConnectionWithOptions(ctx, bindings.Options{URI: Options.URI, APIVersion: cfg.APIVersion})
	} else {
		cliCtx, err = bindings.NewConnectionWithConfig(ctx, cfg)
	}
	return err
}

// GetContext returns the connection context opened by Connect.
func GetContext() context.Context {
	if cliCtx == nil {
		return context.Background()
	}
	return cliCtx
}

// ConnectPreRunE is the PersistentPreRunE of every command that talks to the
// daemon.
func ConnectPreRunE(cmd *cobra.Command, _ []string) error {
	return Connect(cmd.Context())
}

// WaitTimeout returns the configured operation wait timeout; an explicit
// flag value wins.
func WaitTimeout(cmd *cobra.Command, flag string, value time.Duration) *time.Duration {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return &value
	}
	if Config == nil {
		return nil
	}
	timeout, _ := Config.WaitTimeoutDuration()
	return timeout
}

// DeleteRetries returns the configured delete retry bound.
func DeleteRetries() int {
	if Config == nil {
		return config.DefaultDeleteRetries
	}
	return Config.DeleteRetries
}

// PollInterval returns the configured operation poll interval.
func PollInterval() time.Duration {
	if Config == nil {
		return config.DefaultPollInterval
	}
	interval, err := Config.PollIntervalDuration()
	if err != nil {
		return config.DefaultPollInterval
	}
	return interval
}

func SubCommandExists(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Errorf("unrecognized command `%[1]s %[2]s`\nTry '%[1]s --help' for more information.", cmd.CommandPath(), args[0])
	}
	return errors.Errorf("missing command '%[1]s COMMAND'\nTry '%[1]s --help' for more information.", cmd.CommandPath())
}
