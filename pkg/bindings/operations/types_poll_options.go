package operations

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *PollOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *PollOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithTimeout set field Timeout to given value
func (o *PollOptions) WithTimeout(value time.Duration) *PollOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *PollOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}

// WithInterval set field Interval to given value
func (o *PollOptions) WithInterval(value time.Duration) *PollOptions {
	o.Interval = &value
	return o
}

// GetInterval returns value of field Interval
func (o *PollOptions) GetInterval() time.Duration {
	var interval time.Duration
	if o.Interval == nil {
		return interval
	}
	return *o.Interval
}
