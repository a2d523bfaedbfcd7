package images

import (
	"fmt"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/spf13/cobra"
)

var (
	importCmd = &cobra.Command{
		Use:   "import [options] SOURCE",
		Args:  cobra.ExactArgs(1),
		Short: "Import an image from a source the daemon can reach",
		Long:  "Asks the daemon to import an image given by alias or fingerprint, optionally from another server",
		RunE:  importImage,
		Example: `lxdremote image import --alias bb busybox
  lxdremote image import --server https://images.example.com --alias alpine alpine/3.19`,
	}

	importOpts = struct {
		Server   string
		Protocol string
		Aliases  []string
		Public   bool
		Timeout  time.Duration
	}{}
)

func init() {
	register(imageCmd, importCmd)
	flags := importCmd.Flags()
	flags.StringVar(&importOpts.Server, "server", "", "Remote server to import from")
	flags.StringVar(&importOpts.Protocol, "protocol", "", "Protocol of the remote server")
	flags.StringSliceVar(&importOpts.Aliases, "alias", nil, "Aliases to create for the image")
	flags.BoolVar(&importOpts.Public, "public", false, "Make the image available to untrusted clients")
	flags.DurationVar(&importOpts.Timeout, "timeout", 0, "Stop waiting for the daemon after this long")
}

func importImage(cmd *cobra.Command, args []string) error {
	req := entities.ImagesPost{
		ImagePut: entities.ImagePut{Public: importOpts.Public},
		Source: &entities.ImageSource{
			Type:     "image",
			Mode:     "pull",
			Server:   importOpts.Server,
			Protocol: importOpts.Protocol,
			Alias:    args[0],
		},
	}
	for _, alias := range importOpts.Aliases {
		req.Aliases = append(req.Aliases, entities.ImageAlias{Name: alias})
	}
	options := new(images.ImportOptions)
	if timeout := registry.WaitTimeout(cmd, "timeout", importOpts.Timeout); timeout != nil {
		options.WithTimeout(*timeout)
	}
	fingerprint, err := images.Import(registry.GetContext(), req, options)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), fingerprint)
	return nil
}
