package containers

import (
	"fmt"
	"strings"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/spf13/cobra"
)

var (
	listCmd = &cobra.Command{
		Use:     "list [options]",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List containers",
		Long:    "Prints out the containers of the daemon with their status and profiles",
		RunE:    list,
		Example: `lxdremote container list
  lxdremote container ls --filter "status eq Running"`,
	}

	listOpts = struct {
		Filter string
		Quiet  bool
		Format string
	}{}
)

func init() {
	register(listCmd)
	flags := listCmd.Flags()
	flags.StringVarP(&listOpts.Filter, "filter", "f", "", "Filter expression evaluated by the daemon")
	flags.BoolVarP(&listOpts.Quiet, "quiet", "q", false, "Print the container names only")
	flags.StringVar(&listOpts.Format, "format", "", "Print as JSON with \"json\"")
}

func list(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if listOpts.Quiet {
		names, err := containers.Names(registry.GetContext())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	options := new(containers.ListOptions)
	if listOpts.Filter != "" {
		options.WithFilter(listOpts.Filter)
	}
	ctrs, err := containers.List(registry.GetContext(), options)
	if err != nil {
		return err
	}
	if listOpts.Format == "json" {
		return report.JSON(out, ctrs)
	}

	w := report.NewWriter(out)
	w.Row("NAME", "STATUS", "PROFILES", "CREATED")
	for _, c := range ctrs {
		w.Row(c.Name, c.Status, strings.Join(c.Profiles, ","), report.Since(c.CreatedAt))
	}
	return w.Flush()
}
