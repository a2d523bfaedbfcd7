package operations

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// waitGrace is how long past the requested timeout the client keeps a wait
// request open before it stops trusting the daemon to answer.
var waitGrace = 5 * time.Second

const (
	defaultPollInterval = config.DefaultPollInterval
	maxPollInterval     = 10 * time.Second
)

var errNotDone = errors.New("operation not done")

func endpoint(conn *bindings.Connection, id string) bindings.Endpoint {
	return conn.API().Segment("operations").Index(id)
}

// List returns the ids of the operations known to the daemon, keyed by
// lower-case status.
func List(ctx context.Context) (map[string][]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := conn.API().Segment("operations").Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var urls map[string][]string
	if err := response.Process(&urls); err != nil {
		return nil, err
	}
	ids := make(map[string][]string, len(urls))
	for status, list := range urls {
		ids[status] = bindings.IDsFromURLs(list)
	}
	return ids, nil
}

// Get returns the current state of an operation without waiting.
func Get(ctx context.Context, id string) (*Result, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, id).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return newResult(response)
}

func newResult(response *bindings.APIResponse) (*Result, error) {
	env, err := response.Envelope()
	if err != nil {
		return nil, err
	}
	result := &Result{Envelope: env}
	if err := env.Decode(&result.Operation); err != nil {
		return nil, err
	}
	return result, nil
}

// FromEnvelope wraps the envelope of a mutating call. Async responses carry
// the operation as their metadata; a synchronous envelope yields a Result
// that is already done.
func FromEnvelope(env *bindings.Envelope) (*Result, error) {
	result := &Result{Envelope: env}
	if !env.IsAsync() {
		return result, nil
	}
	if err := env.Decode(&result.Operation); err != nil {
		return nil, err
	}
	if result.Operation.ID == "" {
		result.Operation.ID = env.OperationID()
	}
	return result, nil
}

// Wait blocks until the operation reaches a terminal state or the timeout
// elapses. The daemon holds the request open server side; on timeout the last
// known, non-terminal state is returned rather than an error. A failed
// operation is not an error either, see Result.Err.
//
// Waiting does not cancel the operation: once the client gives up, the
// daemon still runs it to completion.
func Wait(ctx context.Context, id string, options *WaitOptions) (*Result, error) {
	if options == nil {
		options = new(WaitOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("timeout", "-1")
	waitCtx := ctx
	if options.Timeout != nil {
		timeout := options.GetTimeout()
		if timeout < 0 {
			timeout = 0
		}
		params.Set("timeout", strconv.Itoa(int(math.Ceil(timeout.Seconds()))))

		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout+waitGrace)
		defer cancel()
	}

	logrus.Debugf("Waiting on operation %s (timeout %s)", id, params.Get("timeout"))
	response, err := endpoint(conn, id).Segment("wait").Get(waitCtx, params)
	if err != nil {
		if ctx.Err() == nil && waitCtx.Err() != nil {
			logrus.Debugf("Daemon did not answer the wait on %s in time, fetching its current state", id)
			return lastKnown(ctx, id)
		}
		return nil, err
	}
	defer response.Body.Close()
	return newResult(response)
}

func lastKnown(ctx context.Context, id string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, waitGrace)
	defer cancel()
	return Get(ctx, id)
}

// Poll watches an operation with repeated status requests instead of the
// server side wait. The delay between requests grows exponentially from the
// configured interval. Like Wait, a timeout returns the last known state.
func Poll(ctx context.Context, id string, options *PollOptions) (*Result, error) {
	if options == nil {
		options = new(PollOptions)
	}
	if options.Timeout != nil && options.GetTimeout() <= 0 {
		return Get(ctx, id)
	}

	interval := options.GetInterval()
	if interval <= 0 {
		interval = defaultPollInterval
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	bo.MaxInterval = maxPollInterval
	if bo.MaxInterval < bo.InitialInterval {
		bo.MaxInterval = bo.InitialInterval
	}
	// Zero keeps polling until the operation completes or ctx is done.
	bo.MaxElapsedTime = options.GetTimeout()

	var last *Result
	err := backoff.Retry(func() error {
		result, err := Get(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = result
		if result.Done() {
			return nil
		}
		logrus.Debugf("Operation %s is %s", id, result.Operation.Status)
		return errNotDone
	}, backoff.WithContext(bo, ctx))

	switch {
	case err == nil:
		return last, nil
	case errors.Is(err, errNotDone) && last != nil:
		return last, nil
	default:
		return nil, err
	}
}

// WaitAll waits on several operations concurrently. Results are in the order
// of ids. The first failure to wait aborts the remaining waits; operations
// that fail server side are reported through their Result.
func WaitAll(ctx context.Context, ids []string, options *WaitOptions) ([]*Result, error) {
	results := make([]*Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			result, err := Wait(gctx, id, options)
			if err != nil {
				return errors.Wrapf(err, "waiting on operation %s", id)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Complete turns the envelope of a mutating call into a Result. When wait is
// set and the envelope is async, it waits on the operation.
func Complete(ctx context.Context, env *bindings.Envelope, wait bool, options *WaitOptions) (*Result, error) {
	result, err := FromEnvelope(env)
	if err != nil {
		return nil, err
	}
	if !wait || !env.IsAsync() {
		return result, nil
	}
	return Wait(ctx, result.ID(), options)
}

// Await is the common tail of a mutating call. It decodes the response, waits
// on the operation unless detach is set, and reports a failed operation as an
// *OperationError. A wait that timed out returns a Result that is not Done.
func Await(ctx context.Context, response *bindings.APIResponse, detach bool, options *WaitOptions) (*Result, error) {
	env, err := response.Envelope()
	if err != nil {
		return nil, err
	}
	result, err := Complete(ctx, env, !detach, options)
	if err != nil {
		return nil, err
	}
	return result, result.Err()
}
