package images

import (
	"net/url"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *TarballOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *TarballOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithTemplates set field Templates to given value
func (o *TarballOptions) WithTemplates(value map[string][]byte) *TarballOptions {
	o.Templates = value
	return o
}

// GetTemplates returns value of field Templates
func (o *TarballOptions) GetTemplates() map[string][]byte {
	var templates map[string][]byte
	if o.Templates == nil {
		return templates
	}
	return o.Templates
}

// WithExcludes set field Excludes to given value
func (o *TarballOptions) WithExcludes(value []string) *TarballOptions {
	o.Excludes = value
	return o
}

// GetExcludes returns value of field Excludes
func (o *TarballOptions) GetExcludes() []string {
	var excludes []string
	if o.Excludes == nil {
		return excludes
	}
	return o.Excludes
}
