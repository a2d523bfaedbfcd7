package images

import (
	"fmt"
	"strings"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/spf13/cobra"
)

var (
	listCmd = &cobra.Command{
		Use:     "list [options]",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List images",
		Long:    "Lists the images of the daemon with their aliases and size",
		RunE:    list,
		Example: `lxdremote image list
  lxdremote image ls --public`,
	}

	listOpts = struct {
		Public  bool
		Quiet   bool
		NoTrunc bool
		Format  string
	}{}
)

func init() {
	register(imageCmd, listCmd)
	flags := listCmd.Flags()
	flags.BoolVar(&listOpts.Public, "public", false, "Only list public images")
	flags.BoolVarP(&listOpts.Quiet, "quiet", "q", false, "Print the fingerprints only")
	flags.BoolVar(&listOpts.NoTrunc, "no-trunc", false, "Do not truncate fingerprints")
	flags.StringVar(&listOpts.Format, "format", "", "Print as JSON with \"json\"")
}

func list(cmd *cobra.Command, args []string) error {
	ctx := registry.GetContext()
	options := new(images.ListOptions)
	if listOpts.Public {
		options.WithFilter("public eq true")
	}
	fingerprints, err := images.List(ctx, options)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if listOpts.Quiet {
		for _, fp := range fingerprints {
			fmt.Fprintln(out, fp)
		}
		return nil
	}

	list := make([]*entities.Image, 0, len(fingerprints))
	for _, fp := range fingerprints {
		image, err := images.Get(ctx, fp)
		if err != nil {
			return err
		}
		list = append(list, image)
	}
	if listOpts.Format == "json" {
		return report.JSON(out, list)
	}

	w := report.NewWriter(out)
	w.Row("FINGERPRINT", "ALIASES", "PUBLIC", "ARCH", "SIZE", "UPLOADED")
	for _, image := range list {
		fp := image.Fingerprint
		if !listOpts.NoTrunc {
			fp = report.Short(fp)
		}
		aliases := make([]string, 0, len(image.Aliases))
		for _, a := range image.Aliases {
			aliases = append(aliases, a.Name)
		}
		w.Row(fp, strings.Join(aliases, ","), fmt.Sprint(image.Public), images.ArchitectureName(image.Architecture),
			report.Size(image.Size), report.Since(image.UploadedAt))
	}
	return w.Flush()
}
