package containers

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *StateOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *StateOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithForce set field Force to given value
func (o *StateOptions) WithForce(value bool) *StateOptions {
	o.Force = &value
	return o
}

// GetForce returns value of field Force
func (o *StateOptions) GetForce() bool {
	var force bool
	if o.Force == nil {
		return force
	}
	return *o.Force
}

// WithStateful set field Stateful to given value
func (o *StateOptions) WithStateful(value bool) *StateOptions {
	o.Stateful = &value
	return o
}

// GetStateful returns value of field Stateful
func (o *StateOptions) GetStateful() bool {
	var stateful bool
	if o.Stateful == nil {
		return stateful
	}
	return *o.Stateful
}

// WithActionTimeout set field ActionTimeout to given value
func (o *StateOptions) WithActionTimeout(value time.Duration) *StateOptions {
	o.ActionTimeout = &value
	return o
}

// GetActionTimeout returns value of field ActionTimeout
func (o *StateOptions) GetActionTimeout() time.Duration {
	var actionTimeout time.Duration
	if o.ActionTimeout == nil {
		return actionTimeout
	}
	return *o.ActionTimeout
}

// WithDetach set field Detach to given value
func (o *StateOptions) WithDetach(value bool) *StateOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *StateOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *StateOptions) WithTimeout(value time.Duration) *StateOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *StateOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
