package profiles

import (
	"fmt"
	"strconv"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/profiles"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	// Command: lxdremote _profile_
	profileCmd = &cobra.Command{
		Use:               "profile",
		Short:             "Manage profiles",
		Long:              "Manage profiles",
		TraverseChildren:  true,
		PersistentPreRunE: registry.ConnectPreRunE,
		RunE:              registry.SubCommandExists,
	}

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List profiles",
		RunE:    list,
	}

	rmCmd = &cobra.Command{
		Use:     "rm NAME [NAME...]",
		Aliases: []string{"remove"},
		Args:    cobra.MinimumNArgs(1),
		Short:   "Remove profiles",
		Long:    "Removes profiles that no container uses",
		RunE:    rm,
	}

	listFormat string
)

func init() {
	registry.Commands = append(registry.Commands,
		registry.CliCommand{Command: profileCmd},
		registry.CliCommand{Command: listCmd, Parent: profileCmd},
		registry.CliCommand{Command: rmCmd, Parent: profileCmd},
	)
	listCmd.Flags().StringVar(&listFormat, "format", "", "Print as JSON with \"json\"")
}

func list(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	names, err := profiles.List(ctx)
	if err != nil {
		return err
	}
	list := make([]*entities.Profile, 0, len(names))
	for _, name := range names {
		p, err := profiles.Get(ctx, name)
		if err != nil {
			return err
		}
		list = append(list, p)
	}
	if listFormat == "json" {
		return report.JSON(cmd.OutOrStdout(), list)
	}
	w := report.NewWriter(cmd.OutOrStdout())
	w.Row("NAME", "DESCRIPTION", "USED BY")
	for _, p := range list {
		w.Row(p.Name, p.Description, strconv.Itoa(len(p.UsedBy)))
	}
	return w.Flush()
}

func rm(cmd *cobra.Command, args []string) error {
	var errs []error
	for _, name := range args {
		if err := profiles.Remove(registry.GetContext(), name); err != nil {
			errs = append(errs, errors.Wrapf(err, "removing profile %s", name))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return errorhandling.JoinErrors(errs)
}
