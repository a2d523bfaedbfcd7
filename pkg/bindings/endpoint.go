package bindings

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Endpoint accumulates the path of a resource and dispatches HTTP verbs
// against it.
//
// An Endpoint is a value: Segment, Index and Query return a new Endpoint and
// never modify the receiver, so chains that share a prefix are independent.
//
//	conn.API().Segment("containers").Index(name).Segment("snapshots").Get(ctx, nil)
type Endpoint struct {
	conn     *Connection
	segments []string
	query    url.Values
	err      error
}

// Body is the payload of a POST or PUT request.
type Body struct {
	reader      io.Reader
	contentType string
	err         error
}

// JSON encodes v as the request payload.
func JSON(v interface{}) *Body {
	data, err := json.Marshal(v)
	if err != nil {
		return &Body{err: errors.Wrap(err, "encoding request body")}
	}
	return &Body{reader: bytes.NewReader(data), contentType: "application/json"}
}

// Data sends r verbatim as the request payload.
func Data(r io.Reader) *Body {
	return &Body{reader: r, contentType: "application/octet-stream"}
}

// Segment appends a literal path component such as "state" or "snapshots".
func (e Endpoint) Segment(name string) Endpoint {
	if e.err == nil && (name == "" || strings.Contains(name, "/")) {
		e.err = errors.Wrapf(ErrInvalidSegment, "segment %q", name)
	}
	return e.with(name)
}

// Index appends a caller supplied identifier, escaped as a single path
// component. "." and ".." are rejected, they would address another resource.
func (e Endpoint) Index(key string) Endpoint {
	if e.err == nil {
		switch key {
		case "":
			e.err = errors.Wrap(ErrInvalidSegment, "empty index")
		case ".", "..":
			e.err = errors.Wrapf(ErrInvalidSegment, "index %q", key)
		}
	}
	return e.with(url.PathEscape(key))
}

func (e Endpoint) with(segment string) Endpoint {
	segments := make([]string, len(e.segments), len(e.segments)+1)
	copy(segments, e.segments)
	e.segments = append(segments, segment)
	return e
}

// Query returns an Endpoint whose requests carry params in addition to the
// query values already set.
func (e Endpoint) Query(params url.Values) Endpoint {
	if len(params) == 0 {
		return e
	}
	query := make(url.Values, len(e.query)+len(params))
	for k, v := range e.query {
		query[k] = append([]string(nil), v...)
	}
	for k, v := range params {
		query[k] = append(query[k], v...)
	}
	e.query = query
	return e
}

// Path joins the accumulated segments into the escaped request path.
func (e Endpoint) Path() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if len(e.segments) == 0 {
		return "", ErrEmptyPath
	}
	return "/" + strings.Join(e.segments, "/"), nil
}

func (e Endpoint) String() string {
	p, err := e.Path()
	if err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	return p
}

// Get issues a GET with optional query parameters.
func (e Endpoint) Get(ctx context.Context, params url.Values) (*APIResponse, error) {
	return e.Query(params).Do(ctx, http.MethodGet, nil, nil)
}

// Post issues a POST. Both body and headers may be nil; headers are passed to
// the transport untouched.
func (e Endpoint) Post(ctx context.Context, body *Body, headers http.Header) (*APIResponse, error) {
	return e.Do(ctx, http.MethodPost, body, headers)
}

// Put issues a PUT.
func (e Endpoint) Put(ctx context.Context, body *Body) (*APIResponse, error) {
	return e.Do(ctx, http.MethodPut, body, nil)
}

// Delete issues a DELETE.
func (e Endpoint) Delete(ctx context.Context) (*APIResponse, error) {
	return e.Do(ctx, http.MethodDelete, nil, nil)
}

// Do issues method against the accumulated path. Construction errors are
// reported before anything reaches the transport.
func (e Endpoint) Do(ctx context.Context, method string, body *Body, headers http.Header) (*APIResponse, error) {
	path, err := e.Path()
	if err != nil {
		return nil, err
	}
	if e.conn == nil {
		return nil, errors.New("endpoint is not bound to a connection")
	}

	var reader io.Reader
	if body != nil {
		if body.err != nil {
			return nil, body.err
		}
		reader = body.reader
		if body.contentType != "" && headers.Get("Content-Type") == "" {
			headers = headers.Clone()
			if headers == nil {
				headers = http.Header{}
			}
			headers.Set("Content-Type", body.contentType)
		}
	}
	return e.conn.DoRequest(ctx, reader, method, path, e.query, headers)
}
