package containers

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/spf13/cobra"
)

var (
	rmCmd = &cobra.Command{
		Use:     "rm [options] NAME [NAME...]",
		Aliases: []string{"remove"},
		Args:    cobra.MinimumNArgs(1),
		Short:   "Remove one or more containers",
		Long:    "Removes stopped containers. Running containers are stopped first with --force.",
		RunE:    rm,
		Example: `lxdremote container rm first
  lxdremote container rm --force --ignore first second`,
	}

	rmOpts = struct {
		Force  bool
		Ignore bool
	}{}
)

func init() {
	register(rmCmd)
	flags := rmCmd.Flags()
	flags.BoolVarP(&rmOpts.Force, "force", "f", false, "Stop running containers before removing them")
	flags.BoolVarP(&rmOpts.Ignore, "ignore", "i", false, "Ignore errors when a specified container is missing")
}

func rm(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	if rmOpts.Force {
		for _, name := range args {
			state, err := containers.State(ctx, name)
			if err != nil {
				continue
			}
			if state.Status != "Stopped" {
				if err := containers.Stop(ctx, name, new(containers.StateOptions).WithForce(true)); err != nil {
					return err
				}
			}
		}
	}
	options := new(containers.RemoveOptions).
		WithIgnore(rmOpts.Ignore).
		WithRetries(registry.DeleteRetries())
	return containers.RemoveAll(ctx, args, options)
}
