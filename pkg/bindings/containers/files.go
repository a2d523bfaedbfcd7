package containers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/pkg/errors"
)

const (
	uidHeader  = "X-LXD-uid"
	gidHeader  = "X-LXD-gid"
	modeHeader = "X-LXD-mode"
)

// GetFile reads a file from a container.
func GetFile(ctx context.Context, name, path string) (*File, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, name).Segment("files").Get(ctx, pathParams(path))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	content, err := response.Raw()
	if err != nil {
		return nil, err
	}
	file := File{Content: content}
	if file.UID, err = intHeader(response.Header, uidHeader, 10); err != nil {
		return nil, err
	}
	if file.GID, err = intHeader(response.Header, gidHeader, 10); err != nil {
		return nil, err
	}
	mode, err := intHeader(response.Header, modeHeader, 8)
	if err != nil {
		return nil, err
	}
	file.Mode = os.FileMode(mode)
	return &file, nil
}

func intHeader(h http.Header, key string, base int) (int, error) {
	v := h.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, base, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s header %q", key, v)
	}
	return int(n), nil
}

// PushFile writes content to path inside a container. Ownership and mode are
// only sent when set.
func PushFile(ctx context.Context, name, path string, content io.Reader, options *PushOptions) error {
	if options == nil {
		options = new(PushOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	header := http.Header{}
	if options.UID != nil {
		header.Set(uidHeader, strconv.Itoa(options.GetUID()))
	}
	if options.GID != nil {
		header.Set(gidHeader, strconv.Itoa(options.GetGID()))
	}
	if options.Mode != nil {
		header.Set(modeHeader, fmt.Sprintf("%04o", options.GetMode().Perm()))
	}
	response, err := endpoint(conn, name).Segment("files").Query(pathParams(path)).Post(ctx, bindings.Data(content), header)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}
