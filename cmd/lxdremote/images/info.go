package images

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/spf13/cobra"
)

var (
	infoCmd = &cobra.Command{
		Use:   "info [options] IMAGE",
		Args:  cobra.ExactArgs(1),
		Short: "Display a summary of an image",
		Long:  "Displays dates, visibility, size and architecture of an image given by fingerprint or alias",
		RunE:  info,
		Example: `lxdremote image info busybox
  lxdremote image info --format json 8a5f`,
	}

	infoFormat string
)

func init() {
	register(imageCmd, infoCmd)
	infoCmd.Flags().StringVar(&infoFormat, "format", "", "Print as JSON with \"json\"")
}

func info(cmd *cobra.Command, args []string) error {
	fingerprint, err := resolve(args[0])
	if err != nil {
		return err
	}
	summary, err := images.Info(registry.GetContext(), fingerprint)
	if err != nil {
		return err
	}
	if infoFormat == "json" {
		return report.JSON(cmd.OutOrStdout(), summary)
	}
	w := report.NewWriter(cmd.OutOrStdout())
	w.Row("Fingerprint:", summary.Fingerprint)
	w.Row("Architecture:", summary.Architecture)
	w.Row("Size:", report.Size(summary.SizeMB*1024*1024))
	w.Row("Public:", boolWord(summary.Public))
	w.Row("Created:", summary.CreatedDate)
	w.Row("Uploaded:", summary.UploadDate)
	w.Row("Expires:", summary.ExpiresDate)
	return w.Flush()
}

// resolve returns the fingerprint an alias points at, or ref itself when no
// such alias exists.
func resolve(ref string) (string, error) {
	alias, err := images.GetAlias(registry.GetContext(), ref)
	if err != nil {
		if bindings.IsNotFound(err) {
			return ref, nil
		}
		return "", err
	}
	return alias.Target, nil
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
