package images

import (
	"net/url"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *ExportOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *ExportOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithSecret set field Secret to given value
func (o *ExportOptions) WithSecret(value string) *ExportOptions {
	o.Secret = &value
	return o
}

// GetSecret returns value of field Secret
func (o *ExportOptions) GetSecret() string {
	var secret string
	if o.Secret == nil {
		return secret
	}
	return *o.Secret
}
