package images

import (
	"io"
	"path"
	"sort"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BuildTarball assembles a unified image tarball: metadata.yaml at the top,
// the tree at rootfs below rootfs/ and the templates below templates/. The
// result is gzip compressed and ready for Upload.
func BuildTarball(metadata entities.ImageMetadata, rootfs string, options *TarballOptions) (io.ReadCloser, error) {
	if options == nil {
		options = new(TarballOptions)
	}
	if metadata.Architecture == "" {
		return nil, errors.New("image metadata needs an architecture")
	}
	for name := range metadata.Templates {
		if _, ok := options.GetTemplates()[metadata.Templates[name].Template]; !ok {
			return nil, errors.Errorf("template %q of %s is not provided", metadata.Templates[name].Template, name)
		}
	}
	meta, err := yaml.Marshal(metadata)
	if err != nil {
		return nil, errors.Wrap(err, "encoding metadata.yaml")
	}

	tb := util.NewTarBuilder()
	tb.AddFile("metadata.yaml", meta, 0o644)
	templates := options.GetTemplates()
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tb.AddFile(path.Join("templates", name), templates[name], 0o644)
	}
	if rootfs != "" {
		if err := tb.Add(rootfs, "rootfs"); err != nil {
			return nil, err
		}
	}
	tb.Exclude(options.GetExcludes()...)
	return tb.Build()
}
