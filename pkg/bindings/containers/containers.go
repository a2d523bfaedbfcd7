package containers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// defaultActionTimeout is the number of seconds the daemon is given to stop or
// restart a container cleanly when the caller does not say otherwise.
const defaultActionTimeout = 30

func collection(conn *bindings.Connection) bindings.Endpoint {
	return conn.API().Segment("containers")
}

func endpoint(conn *bindings.Connection, name string) bindings.Endpoint {
	return collection(conn).Index(name)
}

func waitOptions(timeout *time.Duration) *operations.WaitOptions {
	return &operations.WaitOptions{Timeout: timeout}
}

// List returns every container with its configuration. The filter option is
// evaluated by the daemon.
func List(ctx context.Context, options *ListOptions) ([]entities.Container, error) {
	if options == nil {
		options = new(ListOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	params, err := options.ToParams()
	if err != nil {
		return nil, err
	}
	params.Set("recursion", "1")
	response, err := collection(conn).Get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var containers []entities.Container
	return containers, response.Process(&containers)
}

// Names returns the names of all containers.
func Names(ctx context.Context) ([]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := collection(conn).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var urls []string
	if err := response.Process(&urls); err != nil {
		return nil, err
	}
	return bindings.IDsFromURLs(urls), nil
}

// Inspect returns the configuration and status of a container.
func Inspect(ctx context.Context, name string) (*entities.Container, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	ctr := entities.Container{}
	return &ctr, response.Process(&ctr)
}

// Exists is a quick, light-weight way to determine if a given container
// exists on the daemon.
func Exists(ctx context.Context, name string) (bool, error) {
	_, err := Inspect(ctx, name)
	if err != nil {
		if bindings.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create asks the daemon to create a container and, unless detached, waits
// for it to exist. A failed creation is returned as an
// *operations.OperationError together with the result.
func Create(ctx context.Context, spec entities.ContainersPost, options *CreateOptions) (*operations.Result, error) {
	if options == nil {
		options = new(CreateOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := collection(conn).Post(ctx, bindings.JSON(spec), nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
}

// Update replaces the writable configuration of a container.
func Update(ctx context.Context, name string, put entities.ContainerPut, options *UpdateOptions) error {
	if options == nil {
		options = new(UpdateOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := endpoint(conn, name).Put(ctx, bindings.JSON(put))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	_, err = operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	return err
}

// Rename gives a stopped container a new name.
func Rename(ctx context.Context, name, newName string, options *RenameOptions) error {
	if options == nil {
		options = new(RenameOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := endpoint(conn, name).Post(ctx, bindings.JSON(entities.ContainerPost{Name: newName}), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	_, err = operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	return err
}

// Remove deletes a stopped container. A DELETE answered with 404 is only
// retried when RemoveOptions.Retries is set. The Ignore option only
// suppresses the not found error of a container that is already gone.
func Remove(ctx context.Context, name string, options *RemoveOptions) error {
	if options == nil {
		options = new(RemoveOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	retries := options.GetRetries()
	if retries < 0 {
		retries = 0
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	var response *bindings.APIResponse
	err = backoff.Retry(func() error {
		r, err := endpoint(conn, name).Delete(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if r.StatusCode != http.StatusNotFound {
			response = r
			return nil
		}
		_, err = r.Raw()
		logrus.Infof("Container %s not found, retrying delete", name)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx))
	if err != nil {
		if options.GetIgnore() && bindings.IsNotFound(err) {
			return nil
		}
		return err
	}
	defer response.Body.Close()

	_, err = operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	if err != nil && options.GetIgnore() && bindings.IsNotFound(err) {
		return nil
	}
	return err
}

// State returns the runtime state of a container.
func State(ctx context.Context, name string) (*entities.ContainerState, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Segment("state").Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	state := entities.ContainerState{}
	return &state, response.Process(&state)
}

// UpdateState sends a raw state change request.
func UpdateState(ctx context.Context, name string, put entities.ContainerStatePut, options *StateOptions) (*operations.Result, error) {
	if options == nil {
		options = new(StateOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Segment("state").Put(ctx, bindings.JSON(put))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
}

func changeState(ctx context.Context, name, action string, options *StateOptions) error {
	if options == nil {
		options = new(StateOptions)
	}
	put := entities.ContainerStatePut{
		Action:   action,
		Timeout:  defaultActionTimeout,
		Force:    options.GetForce(),
		Stateful: options.GetStateful(),
	}
	if options.ActionTimeout != nil {
		put.Timeout = int(options.GetActionTimeout().Seconds())
	}
	_, err := UpdateState(ctx, name, put, options)
	return err
}

// Start starts a stopped container.
func Start(ctx context.Context, name string, options *StateOptions) error {
	return changeState(ctx, name, "start", options)
}

// Stop stops a running or frozen container.
func Stop(ctx context.Context, name string, options *StateOptions) error {
	return changeState(ctx, name, "stop", options)
}

// Restart restarts a running container.
func Restart(ctx context.Context, name string, options *StateOptions) error {
	return changeState(ctx, name, "restart", options)
}

// Freeze pauses all processes of a running container.
func Freeze(ctx context.Context, name string, options *StateOptions) error {
	return changeState(ctx, name, "freeze", options)
}

// Unfreeze resumes a frozen container.
func Unfreeze(ctx context.Context, name string, options *StateOptions) error {
	return changeState(ctx, name, "unfreeze", options)
}

func pathParams(path string) url.Values {
	params := url.Values{}
	params.Set("path", path)
	return params
}

// RemoveAll removes several containers one after the other. It keeps going
// after a failure and returns the failures joined.
func RemoveAll(ctx context.Context, names []string, options *RemoveOptions) error {
	var errs []error
	for _, name := range names {
		if err := Remove(ctx, name, options); err != nil {
			errs = append(errs, errors.Wrapf(err, "removing container %s", name))
		}
	}
	return errorhandling.JoinErrors(errs)
}
