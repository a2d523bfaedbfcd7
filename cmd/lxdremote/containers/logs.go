package containers

import (
	"fmt"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/spf13/cobra"
)

var (
	logsCmd = &cobra.Command{
		Use:   "logs [options] NAME [LOG]",
		Args:  cobra.RangeArgs(1, 2),
		Short: "List or print the log files of a container",
		Long:  "Lists the log files of a container, or prints one of them",
		RunE:  logs,
		Example: `lxdremote container logs first
  lxdremote container logs first lxc.log
  lxdremote container logs --rm first lxc.log`,
	}

	logsOpts = struct {
		Remove bool
	}{}
)

func init() {
	register(logsCmd)
	logsCmd.Flags().BoolVar(&logsOpts.Remove, "rm", false, "Remove the log file instead of printing it")
}

func logs(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	if len(args) == 1 {
		names, err := containers.ListLogs(ctx, args[0])
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
	if logsOpts.Remove {
		return containers.RemoveLog(ctx, args[0], args[1])
	}
	_, err := containers.CopyLog(ctx, args[0], args[1], cmd.OutOrStdout())
	return err
}
