package containers

import (
	"fmt"
	"os"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	execCmd = &cobra.Command{
		Use:   "exec [options] NAME [COMMAND [ARG...]]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Run a process in a running container",
		Long:  "Runs a command in a running container and exits with its exit code",
		RunE:  exec,
		Example: `lxdremote container exec first -- ls -l /
  lxdremote container exec --command "sh -c 'echo $HOME'" first`,
	}

	execOpts = struct {
		Command string
		Env     []string
	}{}
)

func init() {
	register(execCmd)
	flags := execCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&execOpts.Command, "command", "", "Command line to run, split like a shell would")
	flags.StringArrayVarP(&execOpts.Env, "env", "e", nil, "Set environment variables")
}

func exec(cmd *cobra.Command, args []string) error {
	command := args[1:]
	if len(command) > 0 && command[0] == "--" {
		command = command[1:]
	}
	if execOpts.Command != "" {
		if len(command) > 0 {
			return errors.New("--command cannot be combined with command arguments")
		}
		var err error
		if command, err = shlex.Split(execOpts.Command); err != nil {
			return errors.Wrapf(err, "parsing command %q", execOpts.Command)
		}
	}
	if len(command) == 0 {
		return errors.New("you must provide a command to exec")
	}
	env, err := report.ParseKeyValues(execOpts.Env)
	if err != nil {
		return err
	}

	options := new(containers.ExecOptions).WithEnvironment(env).WithInteractive(false)
	if term := os.Getenv("TERM"); term != "" && env["TERM"] == "" {
		options.WithEnvironment(mergeEnv(env, "TERM", term))
	}
	result, err := containers.Exec(registry.GetContext(), args[0], command, options)
	if err != nil {
		return err
	}
	code, ok := containers.ExitCode(result)
	if !ok {
		return errors.Errorf("daemon did not report the exit code of %v", command)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exit code %d\n", code)
	registry.SetExitCode(code)
	return nil
}

func mergeEnv(env map[string]string, key, value string) map[string]string {
	merged := map[string]string{key: value}
	for k, v := range env {
		merged[k] = v
	}
	return merged
}
