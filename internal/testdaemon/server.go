// Package testdaemon serves an in-memory imitation of the LXD REST API on a
// unix socket. It backs the tests of the bindings and of the CLI.
package testdaemon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Request is a request as seen by the daemon.
type Request struct {
	Method string
	// Path is the escaped request path.
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type fault struct {
	method string
	path   string
	code   int
	times  int
}

// Daemon is the fake daemon. All state lives in memory and is guarded by mu.
type Daemon struct {
	Socket     string
	APIVersion string

	server   http.Server
	listener net.Listener
	decoder  *schema.Decoder

	mu         sync.Mutex
	containers map[string]*container
	images     map[string]*image
	aliases    map[string]entities.ImageAliasesEntry
	profiles   map[string]entities.Profile
	operations map[string]*operation
	requests   []Request
	faults     []*fault
	hold       bool
	stallWaits bool
	wg         sync.WaitGroup
}

// Start serves a new daemon on a socket inside dir.
func Start(dir string) (*Daemon, error) {
	socket := filepath.Join(dir, "unix.socket")
	_ = os.Remove(socket)
	listener, err := net.Listen("unix", socket)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", socket)
	}

	d := &Daemon{
		Socket:     socket,
		APIVersion: "1.0",
		listener:   listener,
		decoder:    schema.NewDecoder(),
		containers: map[string]*container{},
		images:     map[string]*image{},
		aliases:    map[string]entities.ImageAliasesEntry{},
		profiles:   map[string]entities.Profile{},
		operations: map[string]*operation{},
	}
	d.decoder.IgnoreUnknownKeys(true)
	d.profiles["default"] = entities.Profile{
		Name: "default",
		ProfilePut: entities.ProfilePut{
			Description: "Default profile",
			Devices:     map[string]map[string]string{"eth0": {"type": "nic", "nictype": "bridged", "parent": "lxdbr0"}},
		},
	}

	router := mux.NewRouter().UseEncodedPath()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, r.URL.EscapedPath())
	})
	for _, fn := range []func(*mux.Router){
		d.registerServerHandlers,
		d.registerOperationsHandlers,
		d.registerContainersHandlers,
		d.registerImagesHandlers,
		d.registerProfilesHandlers,
	} {
		fn(router)
	}

	d.server = http.Server{
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
	}
	go func() {
		if err := d.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("Test daemon stopped: %v", err)
		}
	}()
	return d, nil
}

// URI returns the connection URI of the daemon.
func (d *Daemon) URI() string {
	return "unix://" + d.Socket
}

// Close stops serving, releases held operations and waits for running ones.
func (d *Daemon) Close() error {
	d.ReleaseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.server.Shutdown(ctx)
	d.wg.Wait()
	return err
}

// Hold keeps new operations running until they are released.
func (d *Daemon) Hold(hold bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hold = hold
}

// StallWaits makes wait requests ignore their timeout, imitating a daemon
// that never answers.
func (d *Daemon) StallWaits(stall bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stallWaits = stall
}

// InjectError answers the next times requests for method and escaped path
// with code, whether or not the resource exists.
func (d *Daemon) InjectError(method, path string, code, times int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults = append(d.faults, &fault{method: method, path: path, code: code, times: times})
}

// Requests returns the requests served so far.
func (d *Daemon) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.requests...)
}

// LastRequest returns the most recent request for method, if any.
func (d *Daemon) LastRequest(method string) (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.requests) - 1; i >= 0; i-- {
		if d.requests[i].Method == method {
			return d.requests[i], true
		}
	}
	return Request{}, false
}

func (d *Daemon) versioned(p string) string {
	return "/{version:[0-9][0-9.]*}" + p
}

// APIHandler is a wrapper to enhance HandlerFunc's and remove redundant code
func (d *Daemon) APIHandler(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// http.Server hides panics, we want to see them and fix the cause.
		defer func() {
			err := recover()
			if err != nil {
				buf := make([]byte, 1<<20)
				n := runtime.Stack(buf, true)
				log.Warnf("Recovering from API handler panic: %v, %s", err, buf[:n])
				// Try to inform client things went south... won't work if handler already started writing response body
				InternalServerError(w, fmt.Errorf("%v", err))
			}
		}()

		log.Debugf("APIHandler -- Method: %s URL: %s", r.Method, r.URL.String())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			BadRequest(w, err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err := r.ParseForm(); err != nil {
			log.Infof("Failed Request: unable to parse form: %q", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if code, ok := d.record(r, body); ok {
			Error(w, code, http.StatusText(code))
			return
		}
		if v := mux.Vars(r)["version"]; v != "" && v != d.APIVersion {
			NotFound(w, "API version "+v)
			return
		}
		h(w, r)
	}
}

// record stores the request and reports an injected fault for it.
func (d *Daemon) record(r *http.Request, body []byte) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, Request{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	for i, f := range d.faults {
		if f.method == r.Method && f.path == r.URL.EscapedPath() {
			f.times--
			if f.times <= 0 {
				d.faults = append(d.faults[:i], d.faults[i+1:]...)
			}
			return f.code, true
		}
	}
	return 0, false
}

func (d *Daemon) registerServerHandlers(r *mux.Router) {
	r.HandleFunc(d.versioned(""), d.APIHandler(d.serverInfo)).Methods(http.MethodGet)
}

func (d *Daemon) serverInfo(w http.ResponseWriter, r *http.Request) {
	WriteSync(w, http.StatusOK, entities.ServerInfo{
		APIExtensions: []string{},
		APIStatus:     "stable",
		APIVersion:    d.APIVersion,
		Auth:          "trusted",
		Environment: entities.ServerEnvironment{
			Architectures: []string{"x86_64"},
			Driver:        "lxc",
			Server:        "lxd",
			ServerVersion: "2.0.0",
			Storage:       "dir",
		},
	})
}

type listQuery struct {
	Recursion int    `schema:"recursion"`
	Filter    string `schema:"filter"`
}

// listQuery decodes the query parameters common to collection listings.
func (d *Daemon) listQuery(r *http.Request) (listQuery, error) {
	var q listQuery
	if err := d.decoder.Decode(&q, r.URL.Query()); err != nil {
		return q, errors.Wrapf(err, "failed to parse parameters for %s", r.URL.String())
	}
	return q, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
