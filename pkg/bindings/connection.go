package bindings

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/containers/lxd-bindings/pkg/config"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type APIResponse struct {
	*http.Response
	Request *http.Request
}

// Connection is the handle to one daemon. It is safe for concurrent use; every
// request goes through the shared http.Client.
type Connection struct {
	URI        *url.URL
	Client     *http.Client
	APIVersion string

	// ServerVersion is the API version the daemon reported when the
	// connection was established.
	ServerVersion semver.Version
}

type valueKey string

const (
	clientKey = valueKey("Client")
)

// Options configure how a connection is established.
type Options struct {
	// URI of the daemon socket, unix:///var/lib/lxd/unix.socket for example.
	URI string
	// APIVersion is the leading path segment of every API request.
	APIVersion string
}

// GetClient from context build by NewConnection()
func GetClient(ctx context.Context) (*Connection, error) {
	if c, ok := ctx.Value(clientKey).(*Connection); ok {
		return c, nil
	}
	return nil, errors.Errorf("%s not set in context", clientKey)
}

// NewConnection creates a new service connection without an identity.
//
// A valid URI connection should be scheme://
// For example unix:///var/lib/lxd/unix.socket
// An empty URI selects the default socket of the local daemon.
func NewConnection(ctx context.Context, uri string) (context.Context, error) {
	return NewConnectionWithOptions(ctx, Options{URI: uri})
}

// NewConnectionWithConfig creates a connection from a client configuration.
func NewConnectionWithConfig(ctx context.Context, cfg *config.Config) (context.Context, error) {
	opts := Options{APIVersion: cfg.APIVersion}
	if cfg.Socket != "" {
		opts.URI = "unix://" + cfg.Socket
	}
	return NewConnectionWithOptions(ctx, opts)
}

// NewConnectionWithOptions takes a URI as a string and returns a context with the
// Connection embedded as a value.  This context needs to be passed to each
// endpoint to work correctly.
func NewConnectionWithOptions(ctx context.Context, opts Options) (context.Context, error) {
	uri := opts.URI
	if uri == "" {
		uri = "unix://" + config.DefaultSocketPath()
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}

	_url, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "daemon URI is not a valid url: %s", uri)
	}

	var connection Connection
	switch _url.Scheme {
	case "unix":
		if !strings.HasPrefix(uri, "unix:///") {
			// autofix unix://path_element vs unix:///path_element
			_url.Path = "/" + _url.Host + _url.Path
			_url.Host = ""
		}
		connection = unixClient(_url)
	default:
		return nil, errors.Errorf("unable to create connection. %q is not a supported schema", _url.Scheme)
	}
	connection.APIVersion = apiVersion

	ctx = context.WithValue(ctx, clientKey, &connection)
	if err := pingNewConnection(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// pingNewConnection pings to make sure the RESTFUL service is up
// and running. it should only be used when initializing a connection
func pingNewConnection(ctx context.Context) error {
	client, err := GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := client.API().Get(ctx, nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	var info entities.ServerInfo
	if err := response.Process(&info); err != nil {
		return err
	}

	version, err := checkAPIVersion(client.APIVersion, info.APIVersion)
	if err != nil {
		return err
	}
	client.ServerVersion = version
	logrus.Debugf("Connected to daemon API version %s", version)
	return nil
}

// checkAPIVersion compares the API version the daemon reports with the one
// requested: the major versions must match and the daemon must not be older.
// Daemons that predate api_version reporting speak the version in the path.
func checkAPIVersion(requested, reported string) (semver.Version, error) {
	want, err := semver.ParseTolerant(requested)
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, "requested API version %q", requested)
	}
	if reported == "" {
		return want, nil
	}
	have, err := semver.ParseTolerant(reported)
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, "daemon reported API version %q", reported)
	}
	switch {
	case have.Major != want.Major:
		return have, errors.Errorf("daemon API version %s is not compatible with %s", reported, requested)
	case have.LT(want):
		return have, errors.Errorf("daemon API version %s is older than the required %s", reported, requested)
	}
	return have, nil
}

func unixClient(_url *url.URL) Connection {
	connection := Connection{URI: _url}
	connection.Client = &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(ctx, "unix", _url.Path)
			},
			DisableCompression: true,
		},
	}
	return connection
}

// Root returns a path builder anchored at the daemon root, without the API
// version segment.
func (c *Connection) Root() Endpoint {
	return Endpoint{conn: c}
}

// API returns a path builder anchored at the versioned API root.
func (c *Connection) API() Endpoint {
	return c.Root().Segment(c.APIVersion)
}

// DoRequest assembles the http request and returns the response.
// The endpoint must already be escaped; the host part of the request URL is a
// placeholder since the socket address decides where the request goes.
func (c *Connection) DoRequest(ctx context.Context, httpBody io.Reader, httpMethod, endpoint string, queryParams url.Values, headers http.Header) (*APIResponse, error) {
	// The "d" host is discarded and is meaningless
	uri := "http://d" + endpoint
	logrus.Debugf("DoRequest Method: %s URI: %v", httpMethod, uri)

	req, err := http.NewRequestWithContext(ctx, httpMethod, uri, httpBody)
	if err != nil {
		return nil, &TransportError{Method: httpMethod, Path: endpoint, Err: err}
	}
	if len(queryParams) > 0 {
		req.URL.RawQuery = queryParams.Encode()
	}
	for key, val := range headers {
		for _, v := range val {
			req.Header.Add(key, v)
		}
	}

	response, err := c.Client.Do(req) //nolint:bodyclose // The caller has to close the body.
	if err != nil {
		return nil, &TransportError{Method: httpMethod, Path: endpoint, Err: err}
	}
	return &APIResponse{response, req}, nil
}

// Bytes reads the whole response body and closes it.
func (h *APIResponse) Bytes() ([]byte, error) {
	defer h.Body.Close()
	data, err := io.ReadAll(h.Body)
	if err != nil {
		return nil, &TransportError{Method: h.Request.Method, Path: h.Request.URL.EscapedPath(), Err: errors.Wrap(err, "unable to read API response")}
	}
	return data, nil
}

// IsInformational returns true if the response code is 1xx
func (h *APIResponse) IsInformational() bool {
	//nolint:usestdlibvars // linter wants to use http.StatusContinue over 100 but that makes less readable IMO
	return h.Response.StatusCode/100 == 1
}

// IsSuccess returns true if the response code is 2xx
func (h *APIResponse) IsSuccess() bool {
	return h.Response.StatusCode/100 == 2
}

// IsRedirection returns true if the response code is 3xx
func (h *APIResponse) IsRedirection() bool {
	return h.Response.StatusCode/100 == 3
}

// IsClientError returns true if the response code is 4xx
func (h *APIResponse) IsClientError() bool {
	return h.Response.StatusCode/100 == 4
}

// IsConflictError returns true if the response code is 409
func (h *APIResponse) IsConflictError() bool {
	return h.Response.StatusCode == 409
}

// IsServerError returns true if the response code is 5xx
func (h *APIResponse) IsServerError() bool {
	return h.Response.StatusCode/100 == 5
}
