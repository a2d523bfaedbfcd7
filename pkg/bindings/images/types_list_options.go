package images

import (
	"net/url"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *ListOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *ListOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithFilter set field Filter to given value
func (o *ListOptions) WithFilter(value string) *ListOptions {
	o.Filter = &value
	return o
}

// GetFilter returns value of field Filter
func (o *ListOptions) GetFilter() string {
	var filter string
	if o.Filter == nil {
		return filter
	}
	return *o.Filter
}
