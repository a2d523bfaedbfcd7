package bindings

import (
	"bytes"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResponseType is the "type" member of a response envelope.
type ResponseType string

const (
	SyncResponse  ResponseType = "sync"
	AsyncResponse ResponseType = "async"
	ErrorResponse ResponseType = "error"
)

// Envelope is the standard wrapper of every structured daemon response.
type Envelope struct {
	Type       ResponseType
	Status     string
	StatusCode int
	// Operation is the URL of the background operation of an async response.
	Operation string
	Metadata  jsoniter.RawMessage
	Error     string
	ErrorCode int
}

// envelopeWire distinguishes a missing status_code from a zero one.
type envelopeWire struct {
	Type       ResponseType        `json:"type"`
	Status     string              `json:"status"`
	StatusCode *int                `json:"status_code"`
	Operation  string              `json:"operation"`
	Metadata   jsoniter.RawMessage `json:"metadata"`
	Error      string              `json:"error"`
	ErrorCode  int                 `json:"error_code"`
}

// ParseEnvelope validates and decodes a structured response body. Unknown
// members are ignored.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &EnvelopeError{Err: errors.Wrap(err, "decoding response envelope")}
	}
	if wire.StatusCode == nil {
		return nil, &EnvelopeError{Err: errors.New("response envelope has no status_code")}
	}
	env := &Envelope{
		Type:       wire.Type,
		Status:     wire.Status,
		StatusCode: *wire.StatusCode,
		Operation:  wire.Operation,
		Metadata:   wire.Metadata,
		Error:      wire.Error,
		ErrorCode:  wire.ErrorCode,
	}
	switch {
	case env.IsAsync() && env.Operation == "":
		return nil, &EnvelopeError{StatusCode: env.StatusCode, Err: errors.New("async response without an operation")}
	case !env.IsAsync() && env.Operation != "":
		return nil, &EnvelopeError{StatusCode: env.StatusCode, Err: errors.Errorf("%s response carries operation %q", env.Type, env.Operation)}
	}
	return env, nil
}

// IsAsync reports whether the daemon accepted the request as a background
// operation.
func (e *Envelope) IsAsync() bool {
	return e.Type == AsyncResponse
}

// OperationID is the trailing path segment of the operation URL.
func (e *Envelope) OperationID() string {
	return IDFromURL(e.Operation)
}

// Decode unmarshals the metadata member into v. A missing or null metadata
// leaves v untouched.
func (e *Envelope) Decode(v interface{}) error {
	if v == nil || len(e.Metadata) == 0 || bytes.Equal(bytes.TrimSpace(e.Metadata), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(e.Metadata, v); err != nil {
		return &EnvelopeError{StatusCode: e.StatusCode, Err: errors.Wrap(err, "decoding response metadata")}
	}
	return nil
}

// IDFromURL returns the last path segment of a resource URL such as
// /1.0/operations/abc123, unescaped.
func IDFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	id := u[strings.LastIndex(u, "/")+1:]
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// IDsFromURLs applies IDFromURL to a list of resource URLs.
func IDsFromURLs(urls []string) []string {
	ids := make([]string, 0, len(urls))
	for _, u := range urls {
		ids = append(ids, IDFromURL(u))
	}
	return ids
}
