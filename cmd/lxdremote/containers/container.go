package containers

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/spf13/cobra"
)

var (
	// Command: lxdremote _container_
	containerCmd = &cobra.Command{
		Use:               "container",
		Aliases:           []string{"ctr"},
		Short:             "Manage containers",
		Long:              "Manage containers",
		TraverseChildren:  true,
		PersistentPreRunE: registry.ConnectPreRunE,
		RunE:              registry.SubCommandExists,
	}
)

func init() {
	registry.Commands = append(registry.Commands, registry.CliCommand{
		Command: containerCmd,
	})
}

func register(cmd *cobra.Command) {
	registry.Commands = append(registry.Commands, registry.CliCommand{
		Command: cmd,
		Parent:  containerCmd,
	})
}
