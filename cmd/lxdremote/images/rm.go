package images

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/spf13/cobra"
)

var (
	rmCmd = &cobra.Command{
		Use:     "rm [options] IMAGE [IMAGE...]",
		Aliases: []string{"remove"},
		Args:    cobra.MinimumNArgs(1),
		Short:   "Remove one or more images",
		Long:    "Removes images given by fingerprint or alias together with the aliases pointing at them",
		RunE:    rm,
		Example: `lxdremote image rm busybox
  lxdremote image rm --ignore 8a5f 1c3e`,
	}

	rmIgnore bool
)

func init() {
	register(imageCmd, rmCmd)
	rmCmd.Flags().BoolVarP(&rmIgnore, "ignore", "i", false, "Ignore errors when a specified image is missing")
}

func rm(cmd *cobra.Command, args []string) error {
	fingerprints := make([]string, 0, len(args))
	for _, ref := range args {
		fp, err := resolve(ref)
		if err != nil {
			return err
		}
		fingerprints = append(fingerprints, fp)
	}
	return images.RemoveAll(registry.GetContext(), fingerprints, new(images.RemoveOptions).WithIgnore(rmIgnore))
}
