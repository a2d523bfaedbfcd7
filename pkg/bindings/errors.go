package bindings

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyPath is returned when a terminal verb is called on a builder
	// without any path segments.
	ErrEmptyPath = errors.New("empty endpoint path")
	// ErrInvalidSegment is returned for empty segments or literal segments
	// containing a slash.
	ErrInvalidSegment = errors.New("invalid path segment")
	// ErrNotFound is matched by errors.Is for every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// TransportError reports a failure to exchange a request with the daemon:
// the socket is missing, the connection was refused or the response was not
// valid HTTP.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EnvelopeError reports a structured response that could not be decoded.
type EnvelopeError struct {
	StatusCode int
	Err        error
}

func (e *EnvelopeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("malformed response (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx, non-404 answer of the daemon. Message is the
// daemon's error text, unmodified.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Code returns the HTTP status of the error.
func (e *APIError) Code() int {
	return e.StatusCode
}

// NotFoundError is a 404 answer. It is a distinct type so that existence
// checks can treat it as a plain false.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Code() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Classify maps a status code, and the envelope when one could be decoded,
// to the error taxonomy. It returns nil for 2xx.
func Classify(statusCode int, env *Envelope) error {
	if statusCode/100 == 2 {
		return nil
	}
	var msg string
	if env != nil {
		msg = env.Error
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	if statusCode == http.StatusNotFound {
		return &NotFoundError{Message: msg}
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CheckResponseCode returns the HTTP status carried by an API error.
func CheckResponseCode(inError error) (int, error) {
	var nf *NotFoundError
	if errors.As(inError, &nf) {
		return nf.Code(), nil
	}
	var apiErr *APIError
	if errors.As(inError, &apiErr) {
		return apiErr.Code(), nil
	}
	return -1, errors.New("is not type APIError")
}

// handleError builds the error of a non-2xx response. The body is decoded on
// a best-effort basis; an unparseable body still yields the status code.
func handleError(statusCode int, data []byte) error {
	var wire envelopeWire
	if err := json.Unmarshal(data, &wire); err == nil {
		return Classify(statusCode, &Envelope{Error: wire.Error, ErrorCode: wire.ErrorCode})
	}
	env := &Envelope{Error: plainText(data)}
	return Classify(statusCode, env)
}

// plainText returns a body usable as an error message, or "" when the body is
// empty or binary.
func plainText(data []byte) string {
	text := strings.TrimSpace(string(data))
	if text == "" || !utf8.ValidString(text) || len(text) > 1024 {
		return ""
	}
	return text
}

// Envelope reads the response body, classifies the status and decodes the
// structured envelope of a successful response.
func (h *APIResponse) Envelope() (*Envelope, error) {
	data, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	if !h.IsSuccess() {
		return nil, handleError(h.StatusCode, data)
	}
	env, err := ParseEnvelope(data)
	if err != nil {
		var envErr *EnvelopeError
		if errors.As(err, &envErr) {
			envErr.StatusCode = h.StatusCode
		}
		return nil, err
	}
	if h.StatusCode == http.StatusAccepted && !env.IsAsync() {
		return nil, &EnvelopeError{StatusCode: h.StatusCode, Err: errors.New("accepted response is not an async operation")}
	}
	return env, nil
}

// Process decodes the metadata of a successful response into unmarshalInto,
// which may be nil.
func (h *APIResponse) Process(unmarshalInto interface{}) error {
	env, err := h.Envelope()
	if err != nil {
		return err
	}
	return env.Decode(unmarshalInto)
}

// Raw returns the body of an endpoint that answers with raw bytes rather
// than an envelope. Failures are still classified.
func (h *APIResponse) Raw() ([]byte, error) {
	data, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	if !h.IsSuccess() {
		return nil, handleError(h.StatusCode, data)
	}
	return data, nil
}

// CopyTo streams the raw body of a successful response into w and closes the
// body.
func (h *APIResponse) CopyTo(w io.Writer) (int64, error) {
	if !h.IsSuccess() {
		data, err := h.Bytes()
		if err != nil {
			return 0, err
		}
		return 0, handleError(h.StatusCode, data)
	}
	defer h.Body.Close()
	n, err := io.Copy(w, h.Body)
	if err != nil {
		return n, &TransportError{Method: h.Request.Method, Path: h.Request.URL.EscapedPath(), Err: errors.Wrap(err, "unable to read API response")}
	}
	return n, nil
}
