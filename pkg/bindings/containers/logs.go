package containers

import (
	"context"
	"io"

	"github.com/containers/lxd-bindings/pkg/bindings"
)

// ListLogs returns the names of the log files of a container.
func ListLogs(ctx context.Context, name string) ([]string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Segment("logs").Get(ctx, nil)
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

// GetLog returns the content of a log file. The body is returned verbatim.
func GetLog(ctx context.Context, name, log string) ([]byte, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Segment("logs").Index(log).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return response.Raw()
}

// CopyLog streams a log file into w.
func CopyLog(ctx context.Context, name, log string, w io.Writer) (int64, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return 0, err
	}
	response, err := endpoint(conn, name).Segment("logs").Index(log).Get(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	return response.CopyTo(w)
}

// RemoveLog deletes a log file.
func RemoveLog(ctx context.Context, name, log string) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := endpoint(conn, name).Segment("logs").Index(log).Delete(ctx)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}
