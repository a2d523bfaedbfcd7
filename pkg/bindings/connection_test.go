package bindings_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/containers/lxd-bindings/internal/testdaemon"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDaemon(t *testing.T) *testdaemon.Daemon {
	t.Helper()
	d, err := testdaemon.Start(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNewConnection(t *testing.T) {
	d := startDaemon(t)

	ctx, err := bindings.NewConnection(context.Background(), d.URI())
	require.NoError(t, err)
	conn, err := bindings.GetClient(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0", conn.APIVersion)
	assert.Equal(t, "1.0.0", conn.ServerVersion.String())
	assert.Equal(t, d.Socket, conn.URI.Path)

	req, ok := d.LastRequest(http.MethodGet)
	require.True(t, ok)
	assert.Equal(t, "/1.0", req.Path)
}

func TestNewConnectionShortUnixURI(t *testing.T) {
	d := startDaemon(t)

	// unix://relative/path is read as an absolute path.
	_, err := bindings.NewConnection(context.Background(), "unix:/"+d.Socket)
	require.NoError(t, err)
}

func TestNewConnectionWithConfig(t *testing.T) {
	d := startDaemon(t)

	cfg := config.Default()
	cfg.Socket = d.Socket
	ctx, err := bindings.NewConnectionWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	_, err = bindings.GetClient(ctx)
	assert.NoError(t, err)
}

func TestNewConnectionMissingSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.socket")

	_, err := bindings.NewConnection(context.Background(), "unix://"+socket)
	var transportErr *bindings.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, "/1.0", transportErr.Path)
}

func TestNewConnectionUnsupportedScheme(t *testing.T) {
	_, err := bindings.NewConnection(context.Background(), "tcp://localhost:8443")
	assert.Error(t, err)
}

func TestNewConnectionUnknownAPIVersion(t *testing.T) {
	d := startDaemon(t)

	_, err := bindings.NewConnectionWithOptions(context.Background(), bindings.Options{URI: d.URI(), APIVersion: "2.0"})
	assert.True(t, bindings.IsNotFound(err), "got %v", err)
}

func TestGetClientWithoutConnection(t *testing.T) {
	_, err := bindings.GetClient(context.Background())
	assert.Error(t, err)
}

func TestTransportSurvivesRequests(t *testing.T) {
	d := startDaemon(t)
	ctx, err := bindings.NewConnection(context.Background(), d.URI())
	require.NoError(t, err)
	conn, err := bindings.GetClient(ctx)
	require.NoError(t, err)

	response, err := conn.API().Segment("containers").Index("missing").Delete(ctx)
	require.NoError(t, err)
	_, err = response.Envelope()
	assert.True(t, bindings.IsNotFound(err))
	var nf *bindings.NotFoundError
	assert.True(t, errors.As(err, &nf))

	// The connection is still usable after an error answer.
	response, err = conn.API().Segment("containers").Get(ctx, nil)
	require.NoError(t, err)
	var names []string
	require.NoError(t, response.Process(&names))
	assert.Empty(t, names)
}

func TestInjectedServerError(t *testing.T) {
	d := startDaemon(t)
	ctx, err := bindings.NewConnection(context.Background(), d.URI())
	require.NoError(t, err)
	conn, err := bindings.GetClient(ctx)
	require.NoError(t, err)

	d.InjectError(http.MethodGet, "/1.0/profiles", http.StatusInternalServerError, 1)
	response, err := conn.API().Segment("profiles").Get(ctx, nil)
	require.NoError(t, err)
	err = response.Process(nil)
	code, cerr := bindings.CheckResponseCode(err)
	require.NoError(t, cerr)
	assert.Equal(t, http.StatusInternalServerError, code)

	response, err = conn.API().Segment("profiles").Get(ctx, nil)
	require.NoError(t, err)
	var names []string
	require.NoError(t, response.Process(&names))
	assert.Equal(t, []string{"/1.0/profiles/default"}, names)
}
