package util

import (
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var encoder = schema.NewEncoder()

// Changed reports whether the pointer, map or slice field fieldName of the
// options struct o has been set.
func Changed(o interface{}, fieldName string) bool {
	r := reflect.ValueOf(o)
	value := reflect.Indirect(r).FieldByName(fieldName)
	return !value.IsNil()
}

// ToParams converts an options struct into query parameters. Fields are named
// by their `schema` tag; nil pointers tagged omitempty are skipped and fields
// tagged "-" never reach the query.
func ToParams(o interface{}) (url.Values, error) {
	params := url.Values{}
	if o == nil {
		return params, nil
	}
	if v := reflect.ValueOf(o); v.Kind() == reflect.Ptr && v.IsNil() {
		return params, nil
	}
	if err := encoder.Encode(o, params); err != nil {
		return nil, errors.Wrap(err, "encoding query parameters")
	}
	return params, nil
}
