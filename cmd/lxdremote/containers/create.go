package containers

import (
	"fmt"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [options] NAME",
		Args:  cobra.ExactArgs(1),
		Short: "Create a container",
		Long:  "Creates a stopped container from an image alias, or an empty one without --image",
		RunE:  create,
		Example: `lxdremote container create --image busybox first
  lxdremote container create --image busybox --profile default --config limits.cpu=2 first`,
	}

	createOpts = struct {
		Image     string
		Profiles  []string
		Config    []string
		Ephemeral bool
		Start     bool
		Detach    bool
		Timeout   time.Duration
	}{}
)

func init() {
	register(createCmd)
	flags := createCmd.Flags()
	flags.StringVarP(&createOpts.Image, "image", "i", "", "Alias of the image to create the container from")
	flags.StringSliceVarP(&createOpts.Profiles, "profile", "p", nil, "Profiles to apply (default [default])")
	flags.StringArrayVarP(&createOpts.Config, "config", "c", nil, "Configuration key=value")
	flags.BoolVarP(&createOpts.Ephemeral, "ephemeral", "e", false, "Delete the container when it stops")
	flags.BoolVar(&createOpts.Start, "start", false, "Start the container once it is created")
	flags.BoolVarP(&createOpts.Detach, "detach", "d", false, "Return as soon as the daemon accepted the request")
	flags.DurationVar(&createOpts.Timeout, "timeout", 0, "Stop waiting for the daemon after this long")
}

func create(cmd *cobra.Command, args []string) error {
	cfg, err := report.ParseKeyValues(createOpts.Config)
	if err != nil {
		return err
	}
	spec := entities.ContainersPost{
		ContainerPut: entities.ContainerPut{
			Config:    cfg,
			Ephemeral: createOpts.Ephemeral,
			Profiles:  createOpts.Profiles,
		},
		Name:   args[0],
		Source: entities.ContainerSource{Type: "none"},
	}
	if createOpts.Image != "" {
		spec.Source = entities.ContainerSource{Type: "image", Alias: createOpts.Image}
	}

	options := new(containers.CreateOptions).WithDetach(createOpts.Detach)
	if timeout := registry.WaitTimeout(cmd, "timeout", createOpts.Timeout); timeout != nil {
		options.WithTimeout(*timeout)
	}
	result, err := containers.Create(registry.GetContext(), spec, options)
	if err != nil {
		return err
	}
	if !result.Done() {
		fmt.Fprintln(cmd.OutOrStdout(), result.ID())
		return nil
	}
	if createOpts.Start {
		return containers.Start(registry.GetContext(), args[0], nil)
	}
	return nil
}
