package containers

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *ExecOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *ExecOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithEnvironment set field Environment to given value
func (o *ExecOptions) WithEnvironment(value map[string]string) *ExecOptions {
	o.Environment = value
	return o
}

// GetEnvironment returns value of field Environment
func (o *ExecOptions) GetEnvironment() map[string]string {
	var environment map[string]string
	if o.Environment == nil {
		return environment
	}
	return o.Environment
}

// WithInteractive set field Interactive to given value
func (o *ExecOptions) WithInteractive(value bool) *ExecOptions {
	o.Interactive = &value
	return o
}

// GetInteractive returns value of field Interactive
func (o *ExecOptions) GetInteractive() bool {
	var interactive bool
	if o.Interactive == nil {
		return interactive
	}
	return *o.Interactive
}

// WithRecordOutput set field RecordOutput to given value
func (o *ExecOptions) WithRecordOutput(value bool) *ExecOptions {
	o.RecordOutput = &value
	return o
}

// GetRecordOutput returns value of field RecordOutput
func (o *ExecOptions) GetRecordOutput() bool {
	var recordOutput bool
	if o.RecordOutput == nil {
		return recordOutput
	}
	return *o.RecordOutput
}

// WithWidth set field Width to given value
func (o *ExecOptions) WithWidth(value int) *ExecOptions {
	o.Width = &value
	return o
}

// GetWidth returns value of field Width
func (o *ExecOptions) GetWidth() int {
	var width int
	if o.Width == nil {
		return width
	}
	return *o.Width
}

// WithHeight set field Height to given value
func (o *ExecOptions) WithHeight(value int) *ExecOptions {
	o.Height = &value
	return o
}

// GetHeight returns value of field Height
func (o *ExecOptions) GetHeight() int {
	var height int
	if o.Height == nil {
		return height
	}
	return *o.Height
}

// WithDetach set field Detach to given value
func (o *ExecOptions) WithDetach(value bool) *ExecOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *ExecOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *ExecOptions) WithTimeout(value time.Duration) *ExecOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *ExecOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
