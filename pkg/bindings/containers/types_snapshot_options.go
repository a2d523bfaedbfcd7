package containers

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *SnapshotOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *SnapshotOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithStateful set field Stateful to given value
func (o *SnapshotOptions) WithStateful(value bool) *SnapshotOptions {
	o.Stateful = &value
	return o
}

// GetStateful returns value of field Stateful
func (o *SnapshotOptions) GetStateful() bool {
	var stateful bool
	if o.Stateful == nil {
		return stateful
	}
	return *o.Stateful
}

// WithDetach set field Detach to given value
func (o *SnapshotOptions) WithDetach(value bool) *SnapshotOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *SnapshotOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *SnapshotOptions) WithTimeout(value time.Duration) *SnapshotOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *SnapshotOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
