package containers

import (
	"context"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
)

func snapshots(conn *bindings.Connection, name string) bindings.Endpoint {
	return endpoint(conn, name).Segment("snapshots")
}

// ListSnapshots returns the snapshot names of a container.
func ListSnapshots(ctx context.Context, name string) ([]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := snapshots(conn, name).Get(ctx, nil)
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

// GetSnapshot returns a single snapshot of a container.
func GetSnapshot(ctx context.Context, name, snapshot string) (*entities.ContainerSnapshot, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := snapshots(conn, name).Index(snapshot).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	snap := entities.ContainerSnapshot{}
	return &snap, response.Process(&snap)
}

// CreateSnapshot snapshots a container. An empty snapshot name lets the
// daemon pick one.
func CreateSnapshot(ctx context.Context, name, snapshot string, options *SnapshotOptions) (*operations.Result, error) {
	if options == nil {
		options = new(SnapshotOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	body := entities.SnapshotsPost{Name: snapshot, Stateful: options.GetStateful()}
	response, err := snapshots(conn, name).Post(ctx, bindings.JSON(body), nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
}

// RenameSnapshot renames a snapshot of a container.
func RenameSnapshot(ctx context.Context, name, snapshot, newName string, options *RenameOptions) error {
	if options == nil {
		options = new(RenameOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := snapshots(conn, name).Index(snapshot).Post(ctx, bindings.JSON(entities.ContainerPost{Name: newName}), nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	_, err = operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	return err
}

// RemoveSnapshot deletes a snapshot. Retries does not apply to snapshots.
func RemoveSnapshot(ctx context.Context, name, snapshot string, options *RemoveOptions) error {
	if options == nil {
		options = new(RemoveOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := snapshots(conn, name).Index(snapshot).Delete(ctx)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	_, err = operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	if err != nil && options.GetIgnore() && bindings.IsNotFound(err) {
		return nil
	}
	return err
}
