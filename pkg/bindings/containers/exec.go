package containers

import (
	"context"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/pkg/errors"
)

// Exec runs command in a running container. The daemon reports the exit code
// in the operation metadata, see ExitCode. Interactive sessions need the
// websocket endpoints of the daemon, which are not supported.
func Exec(ctx context.Context, name string, command []string, options *ExecOptions) (*operations.Result, error) {
	if options == nil {
		options = new(ExecOptions)
	}
	if len(command) == 0 {
		return nil, errors.New("exec requires a command")
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	body := entities.ContainerExecPost{
		Command:      command,
		Environment:  options.GetEnvironment(),
		Interactive:  options.GetInteractive(),
		RecordOutput: options.GetRecordOutput(),
		Width:        options.GetWidth(),
		Height:       options.GetHeight(),
	}
	response, err := endpoint(conn, name).Segment("exec").Post(ctx, bindings.JSON(body), nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	return operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
}

// ExitCode returns the exit code recorded in the result of an Exec.
func ExitCode(result *operations.Result) (int, bool) {
	if result == nil {
		return 0, false
	}
	switch v := result.Operation.Metadata["return"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
