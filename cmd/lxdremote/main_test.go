package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/containers/lxd-bindings/internal/testdaemon"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var setup sync.Once

type cli struct {
	t      *testing.T
	daemon *testdaemon.Daemon
	config string
}

func newCLI(t *testing.T) *cli {
	setup.Do(addCommands)
	d, err := testdaemon.Start(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	config := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(config, []byte("delete_retries = 0\npoll_interval = \"50ms\"\n"), 0o600))
	return &cli{t: t, daemon: d, config: config}
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--url", c.daemon.URI(), "--config", c.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	out, err := c.run(args...)
	require.NoError(c.t, err, "lxdremote %s", strings.Join(args, " "))
	return out
}

func TestInfo(t *testing.T) {
	c := newCLI(t)

	var server entities.ServerInfo
	require.NoError(t, yaml.Unmarshal([]byte(c.mustRun("info", "--format", "yaml")), &server))
	assert.Equal(t, "1.0", server.APIVersion)

	server = entities.ServerInfo{}
	require.NoError(t, jsoniter.Unmarshal([]byte(c.mustRun("info", "--format", "json")), &server))
	assert.Equal(t, "1.0", server.APIVersion)
}

func TestContainerCommands(t *testing.T) {
	c := newCLI(t)
	c.daemon.SeedImage("busybox", []byte("busybox"))

	c.mustRun("container", "create", "--detach=false", "--start", "--image", "busybox", "first")
	assert.Equal(t, "Running", c.daemon.ContainerStatus("first"))

	assert.Equal(t, "first\n", c.mustRun("container", "ls", "--quiet"))

	c.mustRun("container", "rm", "--force", "first")
	assert.Empty(t, c.daemon.ContainerStatus("first"))
}

func TestMissingContainer(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("container", "rm", "missing")
	require.Error(t, err)
	assert.True(t, bindings.IsNotFound(err))
	assert.Equal(t, 1, exitCodeFor(err))

	_, err = c.run("container", "rm", "--ignore", "missing")
	assert.NoError(t, err)
}

func TestImageCommands(t *testing.T) {
	c := newCLI(t)
	data := []byte("busybox unified image\n")
	fp := c.daemon.SeedImage("busybox", data)

	assert.Equal(t, fp+"\n", c.mustRun("image", "ls", "--quiet"))
	assert.Equal(t, "bb\n", c.mustRun("image", "alias", "create", "bb", "busybox"))

	var summary entities.ImageInfo
	require.NoError(t, jsoniter.Unmarshal([]byte(c.mustRun("image", "info", "--format", "json", "bb")), &summary))
	assert.Equal(t, fp, summary.Fingerprint)
	assert.Equal(t, "x86_64", summary.Architecture)

	file := filepath.Join(t.TempDir(), "busybox.tar")
	c.mustRun("image", "export", "bb", file)
	exported, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, data, exported)

	c.mustRun("image", "rm", "busybox")
	assert.False(t, c.daemon.HasImage(fp))
}

func TestProfileCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("profile", "ls"), "default")

	_, err := c.run("profile", "rm", "default")
	require.Error(t, err)
	code, _ := bindings.CheckResponseCode(err)
	assert.Equal(t, 403, code)
	assert.Equal(t, 125, exitCodeFor(err))
}

func TestOperationCommands(t *testing.T) {
	c := newCLI(t)
	c.daemon.SeedImage("busybox", []byte("busybox"))
	c.daemon.Hold(true)

	id := strings.TrimSpace(c.mustRun("container", "create", "--detach", "--start=false", "--image", "busybox", "second"))
	require.NotEmpty(t, id)
	assert.Contains(t, c.mustRun("operation", "ls"), id)

	require.NoError(t, c.daemon.Release(id))
	assert.Equal(t, id+" Success\n", c.mustRun("operation", "wait", "--poll", id))
	assert.Equal(t, id+" Success\n", c.mustRun("operation", "wait", "--poll=false", id))
}

func TestUnknownCommand(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("container", "bogus")
	assert.Error(t, err)
}
