package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type stateFunc func(ctx context.Context, name string, options *containers.StateOptions) error

type stateFlags struct {
	Force         bool
	Stateful      bool
	ActionTimeout time.Duration
	Timeout       time.Duration
}

func init() {
	for _, action := range []struct {
		name  string
		short string
		fn    stateFunc
	}{
		{"start", "Start one or more containers", containers.Start},
		{"stop", "Stop one or more containers", containers.Stop},
		{"restart", "Restart one or more containers", containers.Restart},
		{"freeze", "Pause all processes of one or more containers", containers.Freeze},
		{"unfreeze", "Resume one or more frozen containers", containers.Unfreeze},
	} {
		register(newStateCommand(action.name, action.short, action.fn))
	}
}

func newStateCommand(action, short string, fn stateFunc) *cobra.Command {
	opts := stateFlags{}
	cmd := &cobra.Command{
		Use:     action + " [options] NAME [NAME...]",
		Args:    cobra.MinimumNArgs(1),
		Short:   short,
		Long:    short,
		Example: fmt.Sprintf("lxdremote container %s first second", action),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := new(containers.StateOptions).WithStateful(opts.Stateful)
			if cmd.Flags().Changed("force") {
				options.WithForce(opts.Force)
			}
			if cmd.Flags().Changed("action-timeout") {
				options.WithActionTimeout(opts.ActionTimeout)
			}
			if timeout := registry.WaitTimeout(cmd, "timeout", opts.Timeout); timeout != nil {
				options.WithTimeout(*timeout)
			}
			var errs []error
			for _, name := range args {
				if err := fn(registry.GetContext(), name, options); err != nil {
					errs = append(errs, errors.Wrapf(err, "%s container %s", action, name))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return errorhandling.JoinErrors(errs)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.Stateful, "stateful", false, "Save or restore the runtime state")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Stop waiting for the daemon after this long")
	if action == "stop" || action == "restart" {
		flags.BoolVarP(&opts.Force, "force", "f", false, "Kill the container instead of shutting it down")
		flags.DurationVarP(&opts.ActionTimeout, "action-timeout", "t", 30*time.Second, "Time to wait for a clean shutdown")
	}
	return cmd
}
