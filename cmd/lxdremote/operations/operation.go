package operations

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/spf13/cobra"
)

var (
	// Command: lxdremote _operation_
	operationCmd = &cobra.Command{
		Use:               "operation",
		Aliases:           []string{"op"},
		Short:             "Inspect background operations",
		Long:              "Inspect and wait on the background operations of the daemon",
		TraverseChildren:  true,
		PersistentPreRunE: registry.ConnectPreRunE,
		RunE:              registry.SubCommandExists,
	}

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List operations",
		RunE:    list,
	}

	waitCmd = &cobra.Command{
		Use:   "wait [options] ID [ID...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "Wait on operations",
		Long: `Blocks until the operations are done and prints their final status. Operations
still running when the timeout elapses are printed with their current status.`,
		RunE: wait,
		Example: `lxdremote operation wait 6916c8a6-9b7d-4abd-90b3-aedfec7ec7da
  lxdremote operation wait --poll --timeout 30s 6916c8a6-9b7d-4abd-90b3-aedfec7ec7da`,
	}

	waitOpts = struct {
		Timeout time.Duration
		Poll    bool
	}{}
)

func init() {
	registry.Commands = append(registry.Commands,
		registry.CliCommand{Command: operationCmd},
		registry.CliCommand{Command: listCmd, Parent: operationCmd},
		registry.CliCommand{Command: waitCmd, Parent: operationCmd},
	)
	flags := waitCmd.Flags()
	flags.DurationVar(&waitOpts.Timeout, "timeout", 0, "Stop waiting after this long")
	flags.BoolVar(&waitOpts.Poll, "poll", false, "Poll the operation status instead of using the daemon side wait")
}

func list(cmd *cobra.Command, args []string) error {
	ops, err := operations.List(registry.GetContext())
	if err != nil {
		return err
	}
	statuses := make([]string, 0, len(ops))
	for status := range ops {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	w := report.NewWriter(cmd.OutOrStdout())
	w.Row("ID", "STATUS")
	for _, status := range statuses {
		for _, id := range ops[status] {
			w.Row(id, strings.ToUpper(status[:1])+status[1:])
		}
	}
	return w.Flush()
}

func wait(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	timeout := registry.WaitTimeout(cmd, "timeout", waitOpts.Timeout)

	var results []*operations.Result
	if waitOpts.Poll {
		options := new(operations.PollOptions).WithInterval(registry.PollInterval())
		if timeout != nil {
			options.WithTimeout(*timeout)
		}
		for _, id := range args {
			result, err := operations.Poll(ctx, id, options)
			if err != nil {
				return err
			}
			results = append(results, result)
		}
	} else {
		var err error
		results, err = operations.WaitAll(ctx, args, &operations.WaitOptions{Timeout: timeout})
		if err != nil {
			return err
		}
	}

	var errs []error
	for _, result := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", result.ID(), result.Operation.Status)
		if err := result.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errorhandling.JoinErrors(errs)
}
