package containers

import (
	"net/url"
	"os"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *PushOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *PushOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithUID set field UID to given value
func (o *PushOptions) WithUID(value int) *PushOptions {
	o.UID = &value
	return o
}

// GetUID returns value of field UID
func (o *PushOptions) GetUID() int {
	var uID int
	if o.UID == nil {
		return uID
	}
	return *o.UID
}

// WithGID set field GID to given value
func (o *PushOptions) WithGID(value int) *PushOptions {
	o.GID = &value
	return o
}

// GetGID returns value of field GID
func (o *PushOptions) GetGID() int {
	var gID int
	if o.GID == nil {
		return gID
	}
	return *o.GID
}

// WithMode set field Mode to given value
func (o *PushOptions) WithMode(value os.FileMode) *PushOptions {
	o.Mode = &value
	return o
}

// GetMode returns value of field Mode
func (o *PushOptions) GetMode() os.FileMode {
	var mode os.FileMode
	if o.Mode == nil {
		return mode
	}
	return *o.Mode
}
