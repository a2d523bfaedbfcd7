package testdaemon

import (
	"fmt"
	"net/http"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/gorilla/mux"
)

func (d *Daemon) registerProfilesHandlers(r *mux.Router) {
	r.HandleFunc(d.versioned("/profiles"), d.APIHandler(d.listProfiles)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/profiles"), d.APIHandler(d.createProfile)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/profiles/{name}"), d.APIHandler(d.getProfile)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/profiles/{name}"), d.APIHandler(d.updateProfile)).Methods(http.MethodPut)
	r.HandleFunc(d.versioned("/profiles/{name}"), d.APIHandler(d.renameProfile)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/profiles/{name}"), d.APIHandler(d.deleteProfile)).Methods(http.MethodDelete)
}

// profileView fills UsedBy. The caller holds mu.
func (d *Daemon) profileView(p entities.Profile) entities.Profile {
	p.UsedBy = []string{}
	for _, name := range sortedKeys(d.containers) {
		if contains(d.containers[name].Profiles, p.Name) {
			p.UsedBy = append(p.UsedBy, urls(d.APIVersion, "containers", []string{name})[0])
		}
	}
	return p
}

func (d *Daemon) listProfiles(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	WriteSync(w, http.StatusOK, urls(d.APIVersion, "profiles", sortedKeys(d.profiles)))
}

func (d *Daemon) createProfile(w http.ResponseWriter, r *http.Request) {
	var req entities.ProfilesPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Name == "" {
		BadRequest(w, fmt.Errorf("profile name is required"))
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[req.Name]; ok {
		Conflict(w, "profile "+req.Name)
		return
	}
	d.profiles[req.Name] = entities.Profile{ProfilePut: req.ProfilePut, Name: req.Name}
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) lookupProfile(w http.ResponseWriter, r *http.Request) (entities.Profile, bool) {
	name := GetName(r)
	d.mu.Lock()
	p, ok := d.profiles[name]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "profile "+name)
	}
	return p, ok
}

func (d *Daemon) getProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := d.lookupProfile(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	WriteSync(w, http.StatusOK, d.profileView(p))
}

func (d *Daemon) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := d.lookupProfile(w, r)
	if !ok {
		return
	}
	var req entities.ProfilePut
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	p.ProfilePut = req
	d.mu.Lock()
	d.profiles[p.Name] = p
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) renameProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := d.lookupProfile(w, r)
	if !ok {
		return
	}
	var req entities.ProfilePost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if p.Name == "default" {
		Error(w, http.StatusForbidden, "the default profile cannot be renamed")
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[req.Name]; ok {
		Conflict(w, "profile "+req.Name)
		return
	}
	delete(d.profiles, p.Name)
	p.Name = req.Name
	d.profiles[p.Name] = p
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) deleteProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := d.lookupProfile(w, r)
	if !ok {
		return
	}
	if p.Name == "default" {
		Error(w, http.StatusForbidden, "the default profile cannot be deleted")
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if used := d.profileView(p).UsedBy; len(used) > 0 {
		BadRequest(w, fmt.Errorf("profile is currently in use"))
		return
	}
	delete(d.profiles, p.Name)
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}
