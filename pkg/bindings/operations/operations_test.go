package operations

import (
	"context"
	"testing"
	"time"

	"github.com/containers/lxd-bindings/internal/testdaemon"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	daemon *testdaemon.Daemon
	ctx    context.Context
	conn   *bindings.Connection
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := testdaemon.Start(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	ctx, err := bindings.NewConnection(context.Background(), d.URI())
	require.NoError(t, err)
	conn, err := bindings.GetClient(ctx)
	require.NoError(t, err)
	return &fixture{daemon: d, ctx: ctx, conn: conn}
}

// create posts a container creation and returns the async envelope.
func (f *fixture) create(t *testing.T, name string, source entities.ContainerSource) *bindings.Envelope {
	t.Helper()
	body := entities.ContainersPost{Name: name, Source: source}
	response, err := f.conn.API().Segment("containers").Post(f.ctx, bindings.JSON(body), nil)
	require.NoError(t, err)
	env, err := response.Envelope()
	require.NoError(t, err)
	require.True(t, env.IsAsync())
	return env
}

func TestWaitSuccess(t *testing.T) {
	f := newFixture(t)
	f.daemon.SeedImage("busybox", []byte("busybox rootfs"))
	env := f.create(t, "c1", entities.ContainerSource{Type: "image", Alias: "busybox"})

	result, err := Wait(f.ctx, env.OperationID(), nil)
	require.NoError(t, err)
	assert.True(t, result.Done())
	assert.True(t, result.Succeeded())
	assert.NoError(t, result.Err())
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, entities.OperationSuccess, result.Operation.Status)
	assert.Equal(t, env.OperationID(), result.ID())

	req, ok := f.daemon.LastRequest("GET")
	require.True(t, ok)
	assert.Equal(t, "/1.0/operations/"+env.OperationID()+"/wait", req.Path)
	assert.Equal(t, "timeout=-1", req.Query)
}

func TestWaitIsRepeatable(t *testing.T) {
	f := newFixture(t)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	first, err := Wait(f.ctx, env.OperationID(), nil)
	require.NoError(t, err)
	second, err := Wait(f.ctx, env.OperationID(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.Operation.Status, second.Operation.Status)
	assert.True(t, second.Succeeded())
}

func TestWaitZeroTimeoutOnPendingOperation(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	result, err := Wait(f.ctx, env.OperationID(), new(WaitOptions).WithTimeout(0))
	require.NoError(t, err)
	assert.False(t, result.Done())
	assert.True(t, result.Operation.Status.Is(entities.OperationRunning))
	assert.NoError(t, result.Err())

	req, ok := f.daemon.LastRequest("GET")
	require.True(t, ok)
	assert.Equal(t, "timeout=0", req.Query)

	require.NoError(t, f.daemon.Release(env.OperationID()))
	result, err = Wait(f.ctx, env.OperationID(), nil)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestWaitTimeoutRoundsUp(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	start := time.Now()
	result, err := Wait(f.ctx, env.OperationID(), new(WaitOptions).WithTimeout(300*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, result.Done())
	assert.GreaterOrEqual(t, time.Since(start), time.Second)

	req, ok := f.daemon.LastRequest("GET")
	require.True(t, ok)
	assert.Equal(t, "timeout=1", req.Query)
}

func TestWaitFailureIsNotAnError(t *testing.T) {
	f := newFixture(t)
	env := f.create(t, "c1", entities.ContainerSource{Type: "image", Alias: "missing"})

	result, err := Wait(f.ctx, env.OperationID(), nil)
	require.NoError(t, err)
	assert.True(t, result.Done())
	assert.False(t, result.Succeeded())
	assert.Equal(t, entities.OperationFailure, result.Operation.Status)
	assert.Contains(t, result.Operation.Err, "missing")

	var opErr *OperationError
	require.ErrorAs(t, result.Err(), &opErr)
	assert.Equal(t, env.OperationID(), opErr.ID)
	assert.Equal(t, result.Operation.Err, opErr.Message)
}

func TestWaitUnknownOperation(t *testing.T) {
	f := newFixture(t)

	_, err := Wait(f.ctx, "does-not-exist", nil)
	assert.True(t, bindings.IsNotFound(err))
	_, err = Get(f.ctx, "does-not-exist")
	assert.True(t, bindings.IsNotFound(err))
}

func TestWaitStalledDaemon(t *testing.T) {
	saved := waitGrace
	waitGrace = 200 * time.Millisecond
	t.Cleanup(func() { waitGrace = saved })

	f := newFixture(t)
	f.daemon.Hold(true)
	f.daemon.StallWaits(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	result, err := Wait(f.ctx, env.OperationID(), new(WaitOptions).WithTimeout(100*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, result.Done())
	assert.True(t, result.Operation.Status.Is(entities.OperationRunning))

	req, ok := f.daemon.LastRequest("GET")
	require.True(t, ok)
	assert.Equal(t, "/1.0/operations/"+env.OperationID(), req.Path)
}

func TestWaitCanceledContext(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	ctx, cancel := context.WithTimeout(f.ctx, 100*time.Millisecond)
	defer cancel()
	_, err := Wait(ctx, env.OperationID(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	result, err := Get(f.ctx, env.OperationID())
	require.NoError(t, err)
	assert.Equal(t, env.OperationID(), result.Operation.ID)
	assert.Equal(t, []string{"/1.0/containers/c1"}, result.Operation.Resources["containers"])

	ops, err := List(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{env.OperationID()}, ops["running"])
}

func TestPoll(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	go func() {
		time.Sleep(300 * time.Millisecond)
		_ = f.daemon.Release(env.OperationID())
	}()
	result, err := Poll(f.ctx, env.OperationID(), new(PollOptions).WithInterval(50*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestPollTimeoutReturnsLastState(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	options := new(PollOptions).WithInterval(50 * time.Millisecond).WithTimeout(300 * time.Millisecond)
	result, err := Poll(f.ctx, env.OperationID(), options)
	require.NoError(t, err)
	assert.False(t, result.Done())

	result, err = Poll(f.ctx, env.OperationID(), new(PollOptions).WithTimeout(0))
	require.NoError(t, err)
	assert.False(t, result.Done())
}

func TestWaitAll(t *testing.T) {
	f := newFixture(t)
	var ids []string
	for _, name := range []string{"c1", "c2", "c3"} {
		ids = append(ids, f.create(t, name, entities.ContainerSource{Type: "none"}).OperationID())
	}
	ids = append(ids, f.create(t, "c4", entities.ContainerSource{Type: "image", Alias: "missing"}).OperationID())

	results, err := WaitAll(f.ctx, ids, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, result := range results[:3] {
		assert.Equal(t, ids[i], result.ID())
		assert.True(t, result.Succeeded())
	}
	assert.Error(t, results[3].Err())

	_, err = WaitAll(f.ctx, []string{ids[0], "does-not-exist"}, nil)
	assert.True(t, bindings.IsNotFound(err))
}

func TestCompleteSyncEnvelope(t *testing.T) {
	env, err := bindings.ParseEnvelope([]byte(`{"type":"sync","status":"Success","status_code":200,"metadata":{}}`))
	require.NoError(t, err)

	result, err := Complete(context.Background(), env, true, nil)
	require.NoError(t, err)
	assert.True(t, result.Done())
	assert.True(t, result.Succeeded())
	assert.Equal(t, "", result.ID())
}

func TestCompleteDetached(t *testing.T) {
	f := newFixture(t)
	f.daemon.Hold(true)
	env := f.create(t, "c1", entities.ContainerSource{Type: "none"})

	result, err := Complete(f.ctx, env, false, nil)
	require.NoError(t, err)
	assert.False(t, result.Done())
	assert.Equal(t, env.OperationID(), result.ID())
	assert.NoError(t, result.Err())
}
