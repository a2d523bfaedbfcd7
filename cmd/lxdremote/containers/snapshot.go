package containers

import (
	"fmt"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/spf13/cobra"
)

var (
	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Manage container snapshots",
		Long:  "Manage container snapshots",
		RunE:  registry.SubCommandExists,
	}

	snapshotListCmd = &cobra.Command{
		Use:     "list NAME",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		Short:   "List the snapshots of a container",
		RunE:    snapshotList,
	}

	snapshotCreateCmd = &cobra.Command{
		Use:   "create [options] NAME [SNAPSHOT]",
		Args:  cobra.RangeArgs(1, 2),
		Short: "Snapshot a container",
		Long:  "Snapshots a container. The daemon picks a name when none is given.",
		RunE:  snapshotCreate,
	}

	snapshotRmCmd = &cobra.Command{
		Use:     "rm NAME SNAPSHOT",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(2),
		Short:   "Remove a snapshot",
		RunE:    snapshotRm,
	}

	snapshotOpts = struct {
		Stateful bool
		Timeout  time.Duration
	}{}
)

func init() {
	register(snapshotCmd)
	for _, cmd := range []*cobra.Command{snapshotListCmd, snapshotCreateCmd, snapshotRmCmd} {
		registry.Commands = append(registry.Commands, registry.CliCommand{
			Command: cmd,
			Parent:  snapshotCmd,
		})
	}
	flags := snapshotCreateCmd.Flags()
	flags.BoolVar(&snapshotOpts.Stateful, "stateful", false, "Include the runtime state")
	flags.DurationVar(&snapshotOpts.Timeout, "timeout", 0, "Stop waiting for the daemon after this long")
}

func snapshotList(cmd *cobra.Command, args []string) error {
	names, err := containers.ListSnapshots(registry.GetContext(), args[0])
	if err != nil {
		return err
	}
	w := report.NewWriter(cmd.OutOrStdout())
	w.Row("NAME", "CREATED", "STATEFUL")
	for _, name := range names {
		snapshot, err := containers.GetSnapshot(registry.GetContext(), args[0], name)
		if err != nil {
			return err
		}
		w.Row(snapshot.Name, report.Since(snapshot.CreatedAt), fmt.Sprint(snapshot.Stateful))
	}
	return w.Flush()
}

func snapshotCreate(cmd *cobra.Command, args []string) error {
	var snapshot string
	if len(args) > 1 {
		snapshot = args[1]
	}
	options := new(containers.SnapshotOptions).WithStateful(snapshotOpts.Stateful)
	if timeout := registry.WaitTimeout(cmd, "timeout", snapshotOpts.Timeout); timeout != nil {
		options.WithTimeout(*timeout)
	}
	_, err := containers.CreateSnapshot(registry.GetContext(), args[0], snapshot, options)
	return err
}

func snapshotRm(cmd *cobra.Command, args []string) error {
	return containers.RemoveSnapshot(registry.GetContext(), args[0], args[1], nil)
}
