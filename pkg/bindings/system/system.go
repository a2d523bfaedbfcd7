package system

import (
	"context"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
)

// Info returns the daemon's description of itself: API version and
// extensions, trust status, configuration and host environment.
func Info(ctx context.Context) (*entities.ServerInfo, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := conn.API().Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	info := entities.ServerInfo{}
	return &info, response.Process(&info)
}

// Version returns the API version negotiated when the connection was made.
func Version(ctx context.Context) (string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return "", err
	}
	return conn.ServerVersion.String(), nil
}
