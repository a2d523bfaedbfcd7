package images

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/spf13/cobra"
)

var (
	// Command: lxdremote _image_
	imageCmd = &cobra.Command{
		Use:               "image",
		Short:             "Manage images",
		Long:              "Manage images and their aliases",
		TraverseChildren:  true,
		PersistentPreRunE: registry.ConnectPreRunE,
		RunE:              registry.SubCommandExists,
	}
)

func init() {
	registry.Commands = append(registry.Commands, registry.CliCommand{
		Command: imageCmd,
	})
}

func register(parent *cobra.Command, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		registry.Commands = append(registry.Commands, registry.CliCommand{
			Command: cmd,
			Parent:  parent,
		})
	}
}
