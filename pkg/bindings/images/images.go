package images

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/containers/lxd-bindings/pkg/errorhandling"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrFingerprintMismatch is returned when the daemon reports a fingerprint
// other than the digest of the bytes that were sent or received.
var ErrFingerprintMismatch = errors.New("image fingerprint does not match its content")

func collection(conn *bindings.Connection) bindings.Endpoint {
	return conn.API().Segment("images")
}

func endpoint(conn *bindings.Connection, fingerprint string) bindings.Endpoint {
	return collection(conn).Index(fingerprint)
}

func waitOptions(timeout *time.Duration) *operations.WaitOptions {
	return &operations.WaitOptions{Timeout: timeout}
}

// List returns the fingerprints of the images known to the daemon.
func List(ctx context.Context, options *ListOptions) ([]string, error) {
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
	response, err := collection(conn).Get(ctx, params)
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

// Get returns an image by fingerprint. The daemon accepts any unique prefix
// of a fingerprint.
func Get(ctx context.Context, fingerprint string) (*entities.Image, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	response, err := endpoint(conn, fingerprint).Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	image := entities.Image{}
	return &image, response.Process(&image)
}

// Exists reports whether the daemon knows an image.
func Exists(ctx context.Context, fingerprint string) (bool, error) {
	_, err := Get(ctx, fingerprint)
	if err != nil {
		if bindings.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByAlias resolves an alias and returns the image it points to.
func GetByAlias(ctx context.Context, alias string) (*entities.Image, error) {
	entry, err := GetAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	return Get(ctx, entry.Target)
}

// Info returns a display summary of an image, see Summarize.
func Info(ctx context.Context, fingerprint string) (*entities.ImageInfo, error) {
	image, err := Get(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	return Summarize(image)
}

// Upload sends a raw image file, a unified tarball for example, and returns
// the fingerprint of the new image. The sha256 digest of the uploaded bytes is
// compared with the fingerprint the daemon reports once the upload operation
// is done; a detached upload returns the local digest unchecked.
func Upload(ctx context.Context, r io.Reader, options *UploadOptions) (string, error) {
	if options == nil {
		options = new(UploadOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return "", err
	}

	header := http.Header{}
	if options.GetPublic() {
		header.Set("X-LXD-Public", "1")
	}
	if options.Filename != nil {
		header.Set("X-LXD-filename", options.GetFilename())
	}
	if len(options.Properties) > 0 {
		props := url.Values{}
		for k, v := range options.GetProperties() {
			props.Set(k, v)
		}
		header.Set("X-LXD-properties", props.Encode())
	}

	body := newHashingBody(r)
	response, err := collection(conn).Post(ctx, bindings.Data(body), header)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	sum, err := body.Digest(ctx)
	if err != nil {
		return "", err
	}
	local := sum.Encoded()
	result, err := operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	if err != nil {
		return "", err
	}
	if !result.Done() || !result.IsAsync() {
		return local, nil
	}
	remote, _ := result.Operation.Metadata["fingerprint"].(string)
	if remote != "" && remote != local {
		return "", errors.Wrapf(ErrFingerprintMismatch, "uploaded %s, daemon reported %s", local, remote)
	}
	logrus.Debugf("Uploaded image %s", local)
	return local, nil
}

// hashingBody digests the bytes the transport reads from it. The transport
// closes a request body once it is done with it, which makes the digest final.
type hashingBody struct {
	r        io.Reader
	digester digest.Digester
	done     chan struct{}
	once     sync.Once
}

func newHashingBody(r io.Reader) *hashingBody {
	return &hashingBody{r: r, digester: digest.Canonical.Digester(), done: make(chan struct{})}
}

func (b *hashingBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.digester.Hash().Write(p[:n])
	return n, err
}

func (b *hashingBody) Close() error {
	b.once.Do(func() { close(b.done) })
	return nil
}

func (b *hashingBody) Digest(ctx context.Context) (digest.Digest, error) {
	select {
	case <-b.done:
		return b.digester.Digest(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Import asks the daemon to fetch an image from the source described in
// req and returns its fingerprint. A detached import returns "".
func Import(ctx context.Context, req entities.ImagesPost, options *ImportOptions) (string, error) {
	if options == nil {
		options = new(ImportOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return "", err
	}
	response, err := collection(conn).Post(ctx, bindings.JSON(req), nil)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	result, err := operations.Await(ctx, response, options.GetDetach(), waitOptions(options.Timeout))
	if err != nil {
		return "", err
	}
	fingerprint, _ := result.Operation.Metadata["fingerprint"].(string)
	return fingerprint, nil
}

// Export writes the image file to w. When fingerprint is a complete sha256
// digest the exported bytes are verified against it.
func Export(ctx context.Context, fingerprint string, w io.Writer, options *ExportOptions) (int64, error) {
	if options == nil {
		options = new(ExportOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return 0, err
	}
	params, err := options.ToParams()
	if err != nil {
		return 0, err
	}
	response, err := endpoint(conn, fingerprint).Segment("export").Get(ctx, params)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	expected := digest.NewDigestFromEncoded(digest.SHA256, fingerprint)
	if expected.Validate() != nil {
		return response.CopyTo(w)
	}
	verifier := expected.Verifier()
	n, err := response.CopyTo(io.MultiWriter(w, verifier))
	if err != nil {
		return n, err
	}
	if !verifier.Verified() {
		return n, errors.Wrapf(ErrFingerprintMismatch, "exported image %s", fingerprint)
	}
	return n, nil
}

// Update replaces the writable properties of an image.
func Update(ctx context.Context, fingerprint string, put entities.ImagePut) error {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := endpoint(conn, fingerprint).Put(ctx, bindings.JSON(put))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return response.Process(nil)
}

// Remove deletes an image and the aliases pointing at it.
func Remove(ctx context.Context, fingerprint string, options *RemoveOptions) error {
	if options == nil {
		options = new(RemoveOptions)
	}
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return err
	}
	response, err := endpoint(conn, fingerprint).Delete(ctx)
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

// Secret asks the daemon for a one-time secret that lets an untrusted client
// export a private image. The secret is part of the token operation the
// daemon creates, which stays running until the secret is used, so it is
// not waited on.
func Secret(ctx context.Context, fingerprint string) (string, error) {
	conn, err := bindings.GetClient(ctx)
	if err != nil {
		return "", err
	}
	response, err := endpoint(conn, fingerprint).Segment("secret").Post(ctx, nil, nil)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	env, err := response.Envelope()
	if err != nil {
		return "", err
	}
	result, err := operations.FromEnvelope(env)
	if err != nil {
		return "", err
	}
	secret, _ := result.Operation.Metadata["secret"].(string)
	if secret == "" {
		return "", errors.Errorf("daemon returned no secret for image %s", fingerprint)
	}
	return secret, nil
}

// RemoveAll removes several images one after the other. It keeps going after
// a failure and returns the failures joined.
func RemoveAll(ctx context.Context, fingerprints []string, options *RemoveOptions) error {
	var errs []error
	for _, fp := range fingerprints {
		if err := Remove(ctx, fp, options); err != nil {
			errs = append(errs, errors.Wrapf(err, "removing image %s", fp))
		}
	}
	return errorhandling.JoinErrors(errs)
}
