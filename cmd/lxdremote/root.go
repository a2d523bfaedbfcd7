package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootCmd = &cobra.Command{
		Use:              path.Base(os.Args[0]),
		Long:             "Manage containers, images and profiles of an LXD daemon",
		SilenceUsage:     true,
		SilenceErrors:    true,
		TraverseChildren: true,
		RunE:             registry.SubCommandExists,
	}

	logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
)

func init() {
	cobra.OnInitialize(
		loggingHook,
	)

	rootFlags(&registry.Options, rootCmd.PersistentFlags())
}

// Execute runs the root command and records the exit code.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		registry.SetExitCode(exitCodeFor(err))
	}
}

func formatError(err error) string {
	if cause := errorhandling.Cause(err); cause != err {
		logrus.Debugf("Root cause: %v", cause)
	}
	return "Error: " + err.Error()
}

func exitCodeFor(err error) int {
	if bindings.IsNotFound(err) {
		return 1
	}
	return registry.ExecErrorCodeGeneric
}

func loggingHook() {
	if !contains(logLevels, registry.Options.LogLevel) {
		fmt.Fprintf(os.Stderr, "Log Level %q is not supported, choose from: %s\n", registry.Options.LogLevel, strings.Join(logLevels, ", "))
		os.Exit(1)
	}

	level, err := logrus.ParseLevel(registry.Options.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	logrus.SetLevel(level)

	if logrus.IsLevelEnabled(logrus.InfoLevel) {
		logrus.Infof("%s filtering at log level %s", os.Args[0], logrus.GetLevel())
	}
}

func rootFlags(opts *registry.GlobalOptions, flags *pflag.FlagSet) {
	flags.StringVarP(&opts.URI, "url", "r", "", "URL of the daemon socket, unix:///var/lib/lxd/unix.socket for example")
	flags.StringVar(&opts.ConfigPath, "config", "", "Path of the client configuration file")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", fmt.Sprintf("Log messages above specified level (%s)", strings.Join(logLevels, ", ")))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
