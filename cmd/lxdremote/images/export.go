package images

import (
	"os"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	exportCmd = &cobra.Command{
		Use:   "export [options] IMAGE [FILE]",
		Args:  cobra.RangeArgs(1, 2),
		Short: "Export an image file",
		Long:  "Writes the image file to FILE, or to stdout without FILE. Exports by full fingerprint are verified.",
		RunE:  export,
		Example: `lxdremote image export busybox busybox.tar.gz
  lxdremote image export --secret 1f0c... 8a5f > image.tar.gz`,
	}

	exportSecret string
)

func init() {
	register(imageCmd, exportCmd)
	exportCmd.Flags().StringVar(&exportSecret, "secret", "", "One-time secret to export a private image")
}

func export(cmd *cobra.Command, args []string) error {
	fingerprint, err := resolve(args[0])
	if err != nil {
		return err
	}
	options := new(images.ExportOptions)
	if exportSecret != "" {
		options.WithSecret(exportSecret)
	}

	if len(args) == 1 {
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("refusing to export to terminal. Give FILE or redirect")
		}
		_, err = images.Export(registry.GetContext(), fingerprint, cmd.OutOrStdout(), options)
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if _, err := images.Export(registry.GetContext(), fingerprint, f, options); err != nil {
		errorhandling.CloseQuiet(f, args[1])
		if rerr := os.Remove(args[1]); rerr != nil {
			logrus.Errorf("Removing partial export %s: %v", args[1], rerr)
		}
		return err
	}
	return f.Close()
}
