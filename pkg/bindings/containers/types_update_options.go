package containers

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *UpdateOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *UpdateOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithDetach set field Detach to given value
func (o *UpdateOptions) WithDetach(value bool) *UpdateOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *UpdateOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *UpdateOptions) WithTimeout(value time.Duration) *UpdateOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *UpdateOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
