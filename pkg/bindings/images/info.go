package images

import (
	"strconv"
	"time"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/pkg/errors"
)

// ErrInvalidSize is returned by Summarize for images without a positive size.
var ErrInvalidSize = errors.New("image has an invalid size")

const dateFormat = "2006-01-02 15:04:05"

// architectures maps the numeric architecture ids of older daemons to names.
var architectures = map[int]string{
	0: "Unknown",
	1: "i686",
	2: "x86_64",
	3: "armv7l",
	4: "aarch64",
	5: "ppc",
	6: "ppc64",
	7: "ppc64le",
}

// ArchitectureName translates a numeric architecture id. Names are returned
// unchanged.
func ArchitectureName(arch string) string {
	id, err := strconv.Atoi(arch)
	if err != nil {
		return arch
	}
	if name, ok := architectures[id]; ok {
		return name
	}
	return architectures[0]
}

func formatDate(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "Unknown"
	}
	return t.UTC().Format(dateFormat)
}

// Summarize builds the display summary of an image. Dates are UTC, the size is
// in whole megabytes.
func Summarize(image *entities.Image) (*entities.ImageInfo, error) {
	if image.Size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "image %s: %d bytes", image.Fingerprint, image.Size)
	}
	return &entities.ImageInfo{
		UploadDate:   formatDate(image.UploadedAt),
		CreatedDate:  formatDate(image.CreatedAt),
		ExpiresDate:  formatDate(image.ExpiresAt),
		Public:       image.Public,
		SizeMB:       image.Size / (1024 * 1024),
		Fingerprint:  image.Fingerprint,
		Architecture: ArchitectureName(image.Architecture),
	}, nil
}
