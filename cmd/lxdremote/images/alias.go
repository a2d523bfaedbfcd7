package images

import (
	"fmt"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/spf13/cobra"
)

var (
	aliasCmd = &cobra.Command{
		Use:   "alias",
		Short: "Manage image aliases",
		Long:  "Manage image aliases",
		RunE:  registry.SubCommandExists,
	}

	aliasListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List image aliases",
		RunE:    aliasList,
	}

	aliasCreateCmd = &cobra.Command{
		Use:     "create [options] ALIAS IMAGE",
		Args:    cobra.ExactArgs(2),
		Short:   "Point a new alias at an image",
		RunE:    aliasCreate,
		Example: `lxdremote image alias create bb 8a5f`,
	}

	aliasRmCmd = &cobra.Command{
		Use:     "rm ALIAS [ALIAS...]",
		Aliases: []string{"remove"},
		Args:    cobra.MinimumNArgs(1),
		Short:   "Remove image aliases",
		RunE:    aliasRm,
	}

	aliasDescription string
)

func init() {
	register(imageCmd, aliasCmd)
	register(aliasCmd, aliasListCmd, aliasCreateCmd, aliasRmCmd)
	aliasCreateCmd.Flags().StringVar(&aliasDescription, "description", "", "Description of the alias")
}

func aliasList(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	names, err := images.ListAliases(ctx)
	if err != nil {
		return err
	}
	entries := make([]*entities.ImageAliasesEntry, 0, len(names))
	for _, name := range names {
		entry, err := images.GetAlias(ctx, name)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	w := report.NewWriter(cmd.OutOrStdout())
	w.Row("ALIAS", "FINGERPRINT", "DESCRIPTION")
	for _, entry := range entries {
		w.Row(entry.Name, report.Short(entry.Target), entry.Description)
	}
	return w.Flush()
}

func aliasCreate(cmd *cobra.Command, args []string) error {
	target, err := resolve(args[1])
	if err != nil {
		return err
	}
	image, err := images.Get(registry.GetContext(), target)
	if err != nil {
		return err
	}
	if err := images.CreateAlias(registry.GetContext(), args[0], image.Fingerprint, aliasDescription); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), args[0])
	return nil
}

func aliasRm(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if err := images.RemoveAlias(registry.GetContext(), name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
