package testdaemon

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/gorilla/mux"
)

var stateCodes = map[string]int{
	"Running": 103,
	"Stopped": 102,
	"Frozen":  110,
}

type containerFile struct {
	content []byte
	uid     string
	gid     string
	mode    string
}

type container struct {
	entities.Container
	snapshots map[string]entities.ContainerSnapshot
	logs      map[string][]byte
	files     map[string]containerFile
}

func newContainer(req entities.ContainersPost) *container {
	profiles := req.Profiles
	if profiles == nil {
		profiles = []string{"default"}
	}
	c := &container{
		Container: entities.Container{
			ContainerPut: req.ContainerPut,
			Name:         req.Name,
			CreatedAt:    time.Now().UTC(),
		},
		snapshots: map[string]entities.ContainerSnapshot{},
		logs: map[string][]byte{
			"lxc.log":  []byte("lxc " + req.Name + " started\n"),
			"lxc.conf": []byte("lxc.uts.name = " + req.Name + "\n"),
		},
		files: map[string]containerFile{},
	}
	c.Profiles = profiles
	c.setStatus("Stopped")
	return c
}

func (c *container) setStatus(status string) {
	c.Status = status
	c.StatusCode = stateCodes[status]
}

// SeedContainer adds a stopped container without going through an operation.
func (d *Daemon) SeedContainer(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[name] = newContainer(entities.ContainersPost{Name: name, Source: entities.ContainerSource{Type: "none"}})
}

// ContainerStatus returns the status of a container, or "" if it is unknown.
func (d *Daemon) ContainerStatus(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.containers[name]; ok {
		return c.Status
	}
	return ""
}

// ContainerFile returns a file pushed into a container with its ownership and
// mode headers.
func (d *Daemon) ContainerFile(name, path string) ([]byte, string, string, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.containers[name]
	if !ok {
		return nil, "", "", "", false
	}
	f, ok := c.files[path]
	return f.content, f.uid, f.gid, f.mode, ok
}

func (d *Daemon) registerContainersHandlers(r *mux.Router) {
	r.HandleFunc(d.versioned("/containers"), d.APIHandler(d.listContainers)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers"), d.APIHandler(d.createContainer)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/containers/{name}"), d.APIHandler(d.getContainer)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}"), d.APIHandler(d.updateContainer)).Methods(http.MethodPut)
	r.HandleFunc(d.versioned("/containers/{name}"), d.APIHandler(d.renameContainer)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/containers/{name}"), d.APIHandler(d.deleteContainer)).Methods(http.MethodDelete)
	r.HandleFunc(d.versioned("/containers/{name}/state"), d.APIHandler(d.getContainerState)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/state"), d.APIHandler(d.updateContainerState)).Methods(http.MethodPut)
	r.HandleFunc(d.versioned("/containers/{name}/snapshots"), d.APIHandler(d.listSnapshots)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/snapshots"), d.APIHandler(d.createSnapshot)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/containers/{name}/snapshots/{snapshot}"), d.APIHandler(d.getSnapshot)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/snapshots/{snapshot}"), d.APIHandler(d.renameSnapshot)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/containers/{name}/snapshots/{snapshot}"), d.APIHandler(d.deleteSnapshot)).Methods(http.MethodDelete)
	r.HandleFunc(d.versioned("/containers/{name}/logs"), d.APIHandler(d.listLogs)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/logs/{log}"), d.APIHandler(d.getLog)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/logs/{log}"), d.APIHandler(d.deleteLog)).Methods(http.MethodDelete)
	r.HandleFunc(d.versioned("/containers/{name}/files"), d.APIHandler(d.getFile)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/containers/{name}/files"), d.APIHandler(d.pushFile)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/containers/{name}/exec"), d.APIHandler(d.execContainer)).Methods(http.MethodPost)
}

// lookupContainer answers 404 itself when the container does not exist.
// The caller must not hold mu.
func (d *Daemon) lookupContainer(w http.ResponseWriter, r *http.Request) (*container, bool) {
	name := GetName(r)
	d.mu.Lock()
	c, ok := d.containers[name]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "container "+name)
	}
	return c, ok
}

func (d *Daemon) containerResources(names ...string) map[string][]string {
	return map[string][]string{"containers": urls(d.APIVersion, "containers", names)}
}

func (d *Daemon) listContainers(w http.ResponseWriter, r *http.Request) {
	query, err := d.listQuery(r)
	if err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	names := sortedKeys(d.containers)
	if query.Recursion > 0 {
		list := make([]entities.Container, 0, len(names))
		for _, n := range names {
			list = append(list, d.containers[n].Container)
		}
		WriteSync(w, http.StatusOK, list)
		return
	}
	WriteSync(w, http.StatusOK, urls(d.APIVersion, "containers", names))
}

func (d *Daemon) createContainer(w http.ResponseWriter, r *http.Request) {
	var req entities.ContainersPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Name == "" {
		BadRequest(w, fmt.Errorf("container name is required"))
		return
	}

	d.mu.Lock()
	_, exists := d.containers[req.Name]
	var missing string
	for _, p := range req.Profiles {
		if _, ok := d.profiles[p]; !ok {
			missing = p
		}
	}
	d.mu.Unlock()
	switch {
	case exists:
		Conflict(w, "container "+req.Name)
		return
	case missing != "":
		BadRequest(w, fmt.Errorf("requested profile %q doesn't exist", missing))
		return
	}

	op := d.newOperation("Creating container", d.containerResources(req.Name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		switch req.Source.Type {
		case "none":
		case "image":
			if _, err := d.resolveImage(req.Source.Alias, req.Source.Fingerprint); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown source type %q", req.Source.Type)
		}
		if _, ok := d.containers[req.Name]; ok {
			return fmt.Errorf("container %q already exists", req.Name)
		}
		d.containers[req.Name] = newContainer(req)
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) getContainer(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	WriteSync(w, http.StatusOK, c.Container)
}

func (d *Daemon) updateContainer(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	var req entities.ContainerPut
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	op := d.newOperation("Updating container", d.containerResources(c.Name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		c.ContainerPut = req
		if c.Profiles == nil {
			c.Profiles = []string{"default"}
		}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) renameContainer(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	var req entities.ContainerPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Name == "" {
		BadRequest(w, fmt.Errorf("new container name is required"))
		return
	}
	d.mu.Lock()
	_, exists := d.containers[req.Name]
	oldName := c.Name
	d.mu.Unlock()
	if exists {
		Conflict(w, "container "+req.Name)
		return
	}
	op := d.newOperation("Renaming container", d.containerResources(oldName), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.containers[req.Name]; ok {
			return fmt.Errorf("container %q already exists", req.Name)
		}
		delete(d.containers, oldName)
		c.Name = req.Name
		d.containers[req.Name] = c
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) deleteContainer(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	running := c.Status != "Stopped"
	name := c.Name
	d.mu.Unlock()
	if running {
		BadRequest(w, fmt.Errorf("container %q is running", name))
		return
	}
	op := d.newOperation("Deleting container", d.containerResources(name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.containers, name)
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) getContainerState(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	state := entities.ContainerState{
		Status:     c.Status,
		StatusCode: c.StatusCode,
	}
	if c.Status != "Stopped" {
		state.Pid = 4242
		state.Processes = 1
		state.Network = map[string]entities.ContainerNIC{
			"eth0": {
				Addresses: []entities.ContainerNICAddress{{Family: "inet", Address: "10.0.3.10", Netmask: "24", Scope: "global"}},
				Hwaddr:    "00:16:3e:00:00:01",
				HostName:  "veth" + c.Name,
				State:     "up",
				Type:      "broadcast",
			},
		}
	}
	WriteSync(w, http.StatusOK, state)
}

func (d *Daemon) updateContainerState(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	var req entities.ContainerStatePut
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}

	var from []string
	var to string
	switch req.Action {
	case "start":
		from, to = []string{"Stopped"}, "Running"
	case "stop":
		from, to = []string{"Running", "Frozen"}, "Stopped"
	case "restart":
		from, to = []string{"Running"}, "Running"
	case "freeze":
		from, to = []string{"Running"}, "Frozen"
	case "unfreeze":
		from, to = []string{"Frozen"}, "Running"
	default:
		BadRequest(w, fmt.Errorf("unknown action %q", req.Action))
		return
	}

	d.mu.Lock()
	name := c.Name
	d.mu.Unlock()
	op := d.newOperation("Changing container state", d.containerResources(name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		for _, s := range from {
			if c.Status == s {
				c.setStatus(to)
				return nil
			}
		}
		return fmt.Errorf("cannot %s container %q while it is %s", req.Action, c.Name, c.Status)
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) snapshotURL(container, snapshot string) string {
	return urls(d.APIVersion, "containers", []string{container})[0] + "/snapshots/" + snapshot
}

func (d *Daemon) listSnapshots(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []string{}
	for _, s := range sortedKeys(c.snapshots) {
		list = append(list, d.snapshotURL(c.Name, s))
	}
	WriteSync(w, http.StatusOK, list)
}

func (d *Daemon) createSnapshot(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	var req entities.SnapshotsPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	name := c.Name
	if req.Name == "" {
		req.Name = fmt.Sprintf("snap%d", len(c.snapshots))
	}
	_, exists := c.snapshots[req.Name]
	d.mu.Unlock()
	if exists {
		Conflict(w, "snapshot "+req.Name)
		return
	}
	op := d.newOperation("Snapshotting container", d.containerResources(name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		c.snapshots[req.Name] = entities.ContainerSnapshot{
			Name:         req.Name,
			CreatedAt:    time.Now().UTC(),
			Architecture: c.Architecture,
			Config:       c.Config,
			Ephemeral:    c.Ephemeral,
			Profiles:     c.Profiles,
			Stateful:     req.Stateful,
		}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) lookupSnapshot(w http.ResponseWriter, r *http.Request) (*container, string, bool) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return nil, "", false
	}
	snapshot := getVar(r, "snapshot")
	d.mu.Lock()
	_, ok = c.snapshots[snapshot]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "snapshot "+snapshot)
	}
	return c, snapshot, ok
}

func (d *Daemon) getSnapshot(w http.ResponseWriter, r *http.Request) {
	c, snapshot, ok := d.lookupSnapshot(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	WriteSync(w, http.StatusOK, c.snapshots[snapshot])
}

func (d *Daemon) renameSnapshot(w http.ResponseWriter, r *http.Request) {
	c, snapshot, ok := d.lookupSnapshot(w, r)
	if !ok {
		return
	}
	var req entities.ContainerPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Name == "" {
		BadRequest(w, fmt.Errorf("new snapshot name is required"))
		return
	}
	d.mu.Lock()
	name := c.Name
	d.mu.Unlock()
	op := d.newOperation("Renaming snapshot", d.containerResources(name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := c.snapshots[req.Name]; ok {
			return fmt.Errorf("snapshot %q already exists", req.Name)
		}
		s := c.snapshots[snapshot]
		delete(c.snapshots, snapshot)
		s.Name = req.Name
		c.snapshots[req.Name] = s
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	c, snapshot, ok := d.lookupSnapshot(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	name := c.Name
	d.mu.Unlock()
	op := d.newOperation("Deleting snapshot", d.containerResources(name), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(c.snapshots, snapshot)
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) listLogs(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []string{}
	for _, l := range sortedKeys(c.logs) {
		list = append(list, urls(d.APIVersion, "containers", []string{c.Name})[0]+"/logs/"+l)
	}
	WriteSync(w, http.StatusOK, list)
}

func (d *Daemon) getLog(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	name := getVar(r, "log")
	d.mu.Lock()
	content, ok := c.logs[name]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "log "+name)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (d *Daemon) deleteLog(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	name := getVar(r, "log")
	d.mu.Lock()
	_, ok = c.logs[name]
	delete(c.logs, name)
	d.mu.Unlock()
	if !ok {
		NotFound(w, "log "+name)
		return
	}
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) getFile(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	path := r.Form.Get("path")
	if path == "" {
		BadRequest(w, fmt.Errorf("missing path argument"))
		return
	}
	d.mu.Lock()
	f, ok := c.files[path]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "file "+path)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-LXD-uid", f.uid)
	w.Header().Set("X-LXD-gid", f.gid)
	w.Header().Set("X-LXD-mode", f.mode)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.content)
}

func (d *Daemon) pushFile(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	path := r.Form.Get("path")
	if path == "" {
		BadRequest(w, fmt.Errorf("missing path argument"))
		return
	}
	content, err := io.ReadAll(r.Body)
	if err != nil {
		BadRequest(w, err)
		return
	}
	f := containerFile{
		content: content,
		uid:     valueOr(r.Header.Get("X-LXD-uid"), "0"),
		gid:     valueOr(r.Header.Get("X-LXD-gid"), "0"),
		mode:    valueOr(r.Header.Get("X-LXD-mode"), "0644"),
	}
	d.mu.Lock()
	c.files[path] = f
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) execContainer(w http.ResponseWriter, r *http.Request) {
	c, ok := d.lookupContainer(w, r)
	if !ok {
		return
	}
	var req entities.ContainerExecPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if len(req.Command) == 0 {
		BadRequest(w, fmt.Errorf("command is required"))
		return
	}
	d.mu.Lock()
	name := c.Name
	status := c.Status
	d.mu.Unlock()
	if status != "Running" {
		BadRequest(w, fmt.Errorf("container %q is not running", name))
		return
	}
	op := d.newOperation("Executing command", d.containerResources(name), func(op *entities.Operation) error {
		op.Metadata = map[string]interface{}{"return": 0}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
