package operations

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *WaitOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *WaitOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithTimeout set field Timeout to given value
func (o *WaitOptions) WithTimeout(value time.Duration) *WaitOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *WaitOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
