package images

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	uploadCmd = &cobra.Command{
		Use:   "upload [options] PATH",
		Args:  cobra.ExactArgs(1),
		Short: "Upload an image file or a root filesystem",
		Long: `Uploads a unified image tarball. When PATH is a directory it is packed as the
root filesystem of a new unified tarball first.`,
		RunE: upload,
		Example: `lxdremote image upload --alias alpine alpine.tar.gz
  lxdremote image upload --arch x86_64 --alias scratch ./rootfs`,
	}

	uploadOpts = struct {
		Public     bool
		Alias      string
		Properties []string
		Arch       string
		Excludes   []string
		Quiet      bool
		Timeout    time.Duration
	}{}
)

func init() {
	register(imageCmd, uploadCmd)
	flags := uploadCmd.Flags()
	flags.BoolVar(&uploadOpts.Public, "public", false, "Make the image available to untrusted clients")
	flags.StringVar(&uploadOpts.Alias, "alias", "", "Alias to create for the new image")
	flags.StringArrayVar(&uploadOpts.Properties, "property", nil, "Image property key=value")
	flags.StringVar(&uploadOpts.Arch, "arch", "x86_64", "Architecture recorded for a packed root filesystem")
	flags.StringArrayVar(&uploadOpts.Excludes, "exclude", nil, "Pattern of root filesystem paths to leave out")
	flags.BoolVarP(&uploadOpts.Quiet, "quiet", "q", false, "Do not show upload progress")
	flags.DurationVar(&uploadOpts.Timeout, "timeout", 0, "Stop waiting for the daemon after this long")
}

func upload(cmd *cobra.Command, args []string) error {
	props, err := report.ParseKeyValues(uploadOpts.Properties)
	if err != nil {
		return err
	}
	src, name, size, err := openImage(args[0], props)
	if err != nil {
		return err
	}
	defer errorhandling.CloseQuiet(src, name)

	var body io.Reader = src
	if size > 0 && !uploadOpts.Quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		p, bar := report.ProgressBar(os.Stderr, "Uploading "+name, size, "Uploaded "+name)
		body = bar.ProxyReader(src)
		defer func() {
			if !bar.Completed() {
				bar.Abort(false)
			}
			p.Wait()
		}()
	}

	options := new(images.UploadOptions).
		WithPublic(uploadOpts.Public).
		WithFilename(name).
		WithProperties(props)
	if timeout := registry.WaitTimeout(cmd, "timeout", uploadOpts.Timeout); timeout != nil {
		options.WithTimeout(*timeout)
	}
	fingerprint, err := images.Upload(registry.GetContext(), body, options)
	if err != nil {
		return err
	}
	if uploadOpts.Alias != "" {
		if err := images.CreateAlias(registry.GetContext(), uploadOpts.Alias, fingerprint, ""); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), fingerprint)
	return nil
}

// openImage returns the image file at path, or a tarball packed from the
// directory at path. The size of a packed tarball is unknown.
func openImage(path string, props map[string]string) (io.ReadCloser, string, int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", 0, err
	}
	if !fi.IsDir() {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", 0, err
		}
		return f, fi.Name(), fi.Size(), nil
	}
	metadata := entities.ImageMetadata{
		Architecture: uploadOpts.Arch,
		CreationDate: time.Now().Unix(),
		Properties:   props,
	}
	tarball, err := images.BuildTarball(metadata, path, new(images.TarballOptions).WithExcludes(uploadOpts.Excludes))
	if err != nil {
		return nil, "", 0, errors.Wrapf(err, "packing %s", path)
	}
	return tarball, fi.Name() + ".tar.gz", 0, nil
}
