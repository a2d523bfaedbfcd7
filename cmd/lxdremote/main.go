package main

import (
	"os"

	_ "github.com/containers/lxd-bindings/cmd/lxdremote/containers"
	_ "github.com/containers/lxd-bindings/cmd/lxdremote/images"
	_ "github.com/containers/lxd-bindings/cmd/lxdremote/operations"
	_ "github.com/containers/lxd-bindings/cmd/lxdremote/profiles"
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	_ "github.com/containers/lxd-bindings/cmd/lxdremote/system"
)

func main() {
	addCommands()
	Execute()
	os.Exit(registry.GetExitCode())
}

func addCommands() {
	for _, c := range registry.Commands {
		parent := rootCmd
		if c.Parent != nil {
			parent = c.Parent
		}
		parent.AddCommand(c.Command)
	}
}
