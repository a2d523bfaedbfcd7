package images

import (
	"net/url"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/internal/util"
)

// Code generated by go generate; DO NOT EDIT.

// Changed returns true if named field has been set
func (o *UploadOptions) Changed(fieldName string) bool {
	return util.Changed(o, fieldName)
}

// ToParams formats struct fields to be passed to API service
func (o *UploadOptions) ToParams() (url.Values, error) {
	return util.ToParams(o)
}

// WithPublic set field Public to given value
func (o *UploadOptions) WithPublic(value bool) *UploadOptions {
	o.Public = &value
	return o
}

// GetPublic returns value of field Public
func (o *UploadOptions) GetPublic() bool {
	var public bool
	if o.Public == nil {
		return public
	}
	return *o.Public
}

// WithFilename set field Filename to given value
func (o *UploadOptions) WithFilename(value string) *UploadOptions {
	o.Filename = &value
	return o
}

// GetFilename returns value of field Filename
func (o *UploadOptions) GetFilename() string {
	var filename string
	if o.Filename == nil {
		return filename
	}
	return *o.Filename
}

// WithProperties set field Properties to given value
func (o *UploadOptions) WithProperties(value map[string]string) *UploadOptions {
	o.Properties = value
	return o
}

// GetProperties returns value of field Properties
func (o *UploadOptions) GetProperties() map[string]string {
	var properties map[string]string
	if o.Properties == nil {
		return properties
	}
	return o.Properties
}

// WithDetach set field Detach to given value
func (o *UploadOptions) WithDetach(value bool) *UploadOptions {
	o.Detach = &value
	return o
}

// GetDetach returns value of field Detach
func (o *UploadOptions) GetDetach() bool {
	var detach bool
	if o.Detach == nil {
		return detach
	}
	return *o.Detach
}

// WithTimeout set field Timeout to given value
func (o *UploadOptions) WithTimeout(value time.Duration) *UploadOptions {
	o.Timeout = &value
	return o
}

// GetTimeout returns value of field Timeout
func (o *UploadOptions) GetTimeout() time.Duration {
	var timeout time.Duration
	if o.Timeout == nil {
		return timeout
	}
	return *o.Timeout
}
