package containers

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *RemoveOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *RemoveOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithIgnore set field Ignore to given value
func (o *RemoveOptions) WithIgnore(value bool) *RemoveOptions {
	o.Ignore = &value
	return o
}

// GetIgnore returns value of field Ignore
func (o *RemoveOptions) GetIgnore() bool {
	var ignore bool
	if o.Ignore == nil {
		return ignore
	}
	return *o.Ignore
}

// WithRetries set field Retries to given value
func (o *RemoveOptions) WithRetries(value int) *RemoveOptions {
	o.Retries = &value
	return o
}

// GetRetries returns value of field Retries
func (o *RemoveOptions) GetRetries() int {
	var retries int
	if o.Retries == nil {
		return retries
	}
	return *o.Retries
}

// WithDetach set field Detach to given value
func (o *RemoveOptions) WithDetach(value bool) *RemoveOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *RemoveOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *RemoveOptions) WithTimeout(value time.Duration) *RemoveOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *RemoveOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
