package containers

import (
	"os"
	"time"
)

// ListOptions are optional options for listing containers
//
//go:generate go run ../generator/generator.go ListOptions
type ListOptions struct {
	// Filter is passed to the daemon verbatim, "status eq Running" for example.
	Filter *string `schema:"filter,omitempty"`
}

// CreateOptions are optional options for creating containers
//
//go:generate go run ../generator/generator.go CreateOptions
type CreateOptions struct {
	// Detach returns as soon as the daemon accepted the request.
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// UpdateOptions are optional options for replacing the configuration of a
// container
//
//go:generate go run ../generator/generator.go UpdateOptions
type UpdateOptions struct {
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// RenameOptions are optional options for renaming containers and snapshots
//
//go:generate go run ../generator/generator.go RenameOptions
type RenameOptions struct {
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// RemoveOptions are optional options for removing containers
//
//go:generate go run ../generator/generator.go RemoveOptions
type RemoveOptions struct {
	// Ignore treats a container that is already gone as removed.
	Ignore *bool `schema:"-"`
	// Retries is how often a DELETE answered with 404 is re-issued before the
	// container is reported as missing, with a growing delay in between.
	// Unset means a single DELETE.
	Retries *int           `schema:"-"`
	Detach  *bool          `schema:"-"`
	Timeout *time.Duration `schema:"-"`
}

// StateOptions are optional options for changing the running state of a
// container
//
//go:generate go run ../generator/generator.go StateOptions
type StateOptions struct {
	// Force kills the container instead of asking it to shut down.
	Force *bool `schema:"-"`
	// Stateful saves or restores the runtime state.
	Stateful *bool `schema:"-"`
	// ActionTimeout is how long the daemon waits for a clean shutdown.
	ActionTimeout *time.Duration `schema:"-"`
	Detach        *bool          `schema:"-"`
	Timeout       *time.Duration `schema:"-"`
}

// SnapshotOptions are optional options for creating snapshots
//
//go:generate go run ../generator/generator.go SnapshotOptions
type SnapshotOptions struct {
	Stateful *bool          `schema:"-"`
	Detach   *bool          `schema:"-"`
	Timeout  *time.Duration `schema:"-"`
}

// ExecOptions are optional options for running commands in a container
//
//go:generate go run ../generator/generator.go ExecOptions
type ExecOptions struct {
	Environment  map[string]string `schema:"-"`
	Interactive  *bool             `schema:"-"`
	RecordOutput *bool             `schema:"-"`
	Width        *int              `schema:"-"`
	Height       *int              `schema:"-"`
	Detach       *bool             `schema:"-"`
	Timeout      *time.Duration    `schema:"-"`
}

// PushOptions are optional options for writing a file into a container
//
//go:generate go run ../generator/generator.go PushOptions
type PushOptions struct {
	UID  *int         `schema:"-"`
	GID  *int         `schema:"-"`
	Mode *os.FileMode `schema:"-"`
}

// File is a file read from a container together with its ownership.
type File struct {
	Content []byte
	UID     int
	GID     int
	Mode    os.FileMode
}
