package testdaemon

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type operation struct {
	op      entities.Operation
	run     func(op *entities.Operation) error
	release chan struct{}
	done    chan struct{}
}

// newOperation registers a background operation and starts it unless
// operations are held. The caller holds no lock.
func (d *Daemon) newOperation(description string, resources map[string][]string, run func(op *entities.Operation) error) entities.Operation {
	now := time.Now().UTC()
	o := &operation{
		op: entities.Operation{
			ID:          uuid.New().String(),
			Class:       "task",
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
			Status:      entities.OperationRunning,
			StatusCode:  103,
			Resources:   resources,
			Metadata:    map[string]interface{}{},
		},
		run:     run,
		release: make(chan struct{}),
		done:    make(chan struct{}),
	}

	d.mu.Lock()
	d.operations[o.op.ID] = o
	hold := d.hold
	snapshot := o.op
	d.mu.Unlock()

	if !hold {
		close(o.release)
	}
	d.wg.Add(1)
	go d.execute(o)
	return snapshot
}

// newToken registers a token operation. It carries its metadata from the
// start and stays running, nothing executes behind it.
func (d *Daemon) newToken(description string, resources map[string][]string, metadata map[string]interface{}) entities.Operation {
	now := time.Now().UTC()
	o := &operation{
		op: entities.Operation{
			ID:          uuid.New().String(),
			Class:       "token",
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
			Status:      entities.OperationRunning,
			StatusCode:  103,
			Resources:   resources,
			Metadata:    metadata,
		},
		release: make(chan struct{}),
		done:    make(chan struct{}),
	}
	close(o.release)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.operations[o.op.ID] = o
	return o.op
}

func (d *Daemon) execute(o *operation) {
	defer d.wg.Done()
	<-o.release

	d.mu.Lock()
	op := o.op
	d.mu.Unlock()

	err := o.run(&op)

	d.mu.Lock()
	o.op.Metadata = op.Metadata
	o.op.UpdatedAt = time.Now().UTC()
	if err != nil {
		log.Debugf("Operation %s failed: %v", o.op.ID, err)
		o.op.Status = entities.OperationFailure
		o.op.StatusCode = http.StatusBadRequest
		o.op.Err = err.Error()
	} else {
		o.op.Status = entities.OperationSuccess
		o.op.StatusCode = http.StatusOK
	}
	d.mu.Unlock()
	close(o.done)
}

// Release lets a held operation run.
func (d *Daemon) Release(id string) error {
	d.mu.Lock()
	o, ok := d.operations[id]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("operation %s not found", id)
	}
	select {
	case <-o.release:
	default:
		close(o.release)
	}
	return nil
}

// ReleaseAll lets every held operation run and stops holding new ones.
func (d *Daemon) ReleaseAll() {
	d.mu.Lock()
	d.hold = false
	ops := make([]*operation, 0, len(d.operations))
	for _, o := range d.operations {
		ops = append(ops, o)
	}
	d.mu.Unlock()
	for _, o := range ops {
		select {
		case <-o.release:
		default:
			close(o.release)
		}
	}
}

// Operation returns the current state of an operation.
func (d *Daemon) Operation(id string) (entities.Operation, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, ok := d.operations[id]
	if !ok {
		return entities.Operation{}, false
	}
	return o.op, true
}

func (d *Daemon) registerOperationsHandlers(r *mux.Router) {
	r.HandleFunc(d.versioned("/operations"), d.APIHandler(d.listOperations)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/operations/{id}"), d.APIHandler(d.getOperation)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/operations/{id}/wait"), d.APIHandler(d.waitOperation)).Methods(http.MethodGet)
}

func (d *Daemon) listOperations(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	byStatus := map[string][]string{}
	for _, id := range sortedKeys(d.operations) {
		status := strings.ToLower(string(d.operations[id].op.Status))
		byStatus[status] = append(byStatus[status], fmt.Sprintf("/%s/operations/%s", d.APIVersion, id))
	}
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, byStatus)
}

func (d *Daemon) lookupOperation(w http.ResponseWriter, r *http.Request) (*operation, bool) {
	id := getVar(r, "id")
	d.mu.Lock()
	o, ok := d.operations[id]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "operation "+id)
	}
	return o, ok
}

func (d *Daemon) getOperation(w http.ResponseWriter, r *http.Request) {
	o, ok := d.lookupOperation(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	op := o.op
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, op)
}

func (d *Daemon) waitOperation(w http.ResponseWriter, r *http.Request) {
	o, ok := d.lookupOperation(w, r)
	if !ok {
		return
	}

	timeout := -1
	if t := r.Form.Get("timeout"); t != "" {
		v, err := strconv.Atoi(t)
		if err != nil {
			BadRequest(w, fmt.Errorf("invalid timeout %q", t))
			return
		}
		timeout = v
	}

	d.mu.Lock()
	stall := d.stallWaits
	d.mu.Unlock()

	var expired <-chan time.Time
	if timeout >= 0 && !stall {
		timer := time.NewTimer(time.Duration(timeout) * time.Second)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-o.done:
	case <-expired:
	case <-r.Context().Done():
		return
	}

	d.mu.Lock()
	op := o.op
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, op)
}
