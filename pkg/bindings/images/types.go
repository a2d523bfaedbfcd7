package images

import (
	"time"
)

// ListOptions are optional options for listing images
//
//go:generate go run ../generator/generator.go ListOptions
type ListOptions struct {
	// Filter is passed to the daemon verbatim, "public eq true" for example.
	Filter *string `schema:"filter,omitempty"`
}

// UploadOptions are optional options for uploading images
//
//go:generate go run ../generator/generator.go UploadOptions
type UploadOptions struct {
	Public *bool `schema:"-"`
	// Filename is the name the daemon records for the uploaded file.
	Filename   *string           `schema:"-"`
	Properties map[string]string `schema:"-"`
	Detach     *bool             `schema:"-"`
	Timeout    *time.Duration    `schema:"-"`
}

// ImportOptions are optional options for importing images from a source
//
//go:generate go run ../generator/generator.go ImportOptions
type ImportOptions struct {
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// ExportOptions are optional options for exporting images
//
//go:generate go run ../generator/generator.go ExportOptions
type ExportOptions struct {
	// Secret grants access to a private image, see Secret.
	Secret *string `schema:"secret,omitempty"`
}

// RemoveOptions are optional options for removing images
//
//go:generate go run ../generator/generator.go RemoveOptions
type RemoveOptions struct {
	// Ignore treats an image that is already gone as removed.
	Ignore  *bool          `schema:"-"`
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// TarballOptions are optional options for building image tarballs
//
//go:generate go run ../generator/generator.go TarballOptions
type TarballOptions struct {
	// Templates maps template names to their content, written below
	// templates/.
	Templates map[string][]byte `schema:"-"`
	// Excludes are patterns of rootfs paths to leave out.
	Excludes []string `schema:"-"`
}
