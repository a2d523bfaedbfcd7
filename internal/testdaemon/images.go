package testdaemon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/containers/lxd-bindings/pkg/domain/entities"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type image struct {
	entities.Image
	data    []byte
	secrets []string
}

// SeedImage stores data as a public image, binds alias to it when alias is
// not empty and returns the fingerprint.
func (d *Daemon) SeedImage(alias string, data []byte) string {
	sum := sha256.Sum256(data)
	fingerprint := hex.EncodeToString(sum[:])
	now := time.Now().UTC()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.images[fingerprint] = &image{
		Image: entities.Image{
			ImagePut:     entities.ImagePut{Public: true, Properties: map[string]string{"os": "busybox"}},
			Architecture: "x86_64",
			Filename:     "busybox.tar.xz",
			Fingerprint:  fingerprint,
			Size:         int64(len(data)),
			CreatedAt:    now,
			UploadedAt:   now,
		},
		data: data,
	}
	if alias != "" {
		d.aliases[alias] = entities.ImageAliasesEntry{
			Name:                 alias,
			ImageAliasesEntryPut: entities.ImageAliasesEntryPut{Target: fingerprint},
		}
	}
	return fingerprint
}

// HasImage reports whether an image with exactly this fingerprint exists.
func (d *Daemon) HasImage(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.images[fingerprint]
	return ok
}

func (d *Daemon) registerImagesHandlers(r *mux.Router) {
	// Aliases first, "aliases" would otherwise match as a fingerprint.
	r.HandleFunc(d.versioned("/images/aliases"), d.APIHandler(d.listAliases)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/images/aliases"), d.APIHandler(d.createAlias)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/images/aliases/{name}"), d.APIHandler(d.getAlias)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/images/aliases/{name}"), d.APIHandler(d.updateAlias)).Methods(http.MethodPut)
	r.HandleFunc(d.versioned("/images/aliases/{name}"), d.APIHandler(d.renameAlias)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/images/aliases/{name}"), d.APIHandler(d.deleteAlias)).Methods(http.MethodDelete)

	r.HandleFunc(d.versioned("/images"), d.APIHandler(d.listImages)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/images"), d.APIHandler(d.createImage)).Methods(http.MethodPost)
	r.HandleFunc(d.versioned("/images/{fingerprint}"), d.APIHandler(d.getImage)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/images/{fingerprint}"), d.APIHandler(d.updateImage)).Methods(http.MethodPut)
	r.HandleFunc(d.versioned("/images/{fingerprint}"), d.APIHandler(d.deleteImage)).Methods(http.MethodDelete)
	r.HandleFunc(d.versioned("/images/{fingerprint}/export"), d.APIHandler(d.exportImage)).Methods(http.MethodGet)
	r.HandleFunc(d.versioned("/images/{fingerprint}/secret"), d.APIHandler(d.imageSecret)).Methods(http.MethodPost)
}

// resolveImage finds an image by alias or by fingerprint prefix. The caller
// holds mu.
func (d *Daemon) resolveImage(alias, fingerprint string) (*image, error) {
	if alias != "" {
		a, ok := d.aliases[alias]
		if !ok {
			return nil, fmt.Errorf("image alias %q not found", alias)
		}
		fingerprint = a.Target
	}
	if fingerprint == "" {
		return nil, fmt.Errorf("no image alias or fingerprint given")
	}
	var match *image
	for fp, img := range d.images {
		if strings.HasPrefix(fp, fingerprint) {
			if match != nil {
				return nil, fmt.Errorf("image fingerprint prefix %q is ambiguous", fingerprint)
			}
			match = img
		}
	}
	if match == nil {
		return nil, fmt.Errorf("image %q not found", fingerprint)
	}
	return match, nil
}

// imageView fills the aliases of an image. The caller holds mu.
func (d *Daemon) imageView(img *image) entities.Image {
	out := img.Image
	out.Aliases = []entities.ImageAlias{}
	for _, name := range sortedKeys(d.aliases) {
		if a := d.aliases[name]; a.Target == img.Fingerprint {
			out.Aliases = append(out.Aliases, entities.ImageAlias{Name: a.Name, Description: a.Description})
		}
	}
	return out
}

func (d *Daemon) lookupImage(w http.ResponseWriter, r *http.Request) (*image, bool) {
	fingerprint := getVar(r, "fingerprint")
	d.mu.Lock()
	img, err := d.resolveImage("", fingerprint)
	d.mu.Unlock()
	if err != nil {
		NotFound(w, "image "+fingerprint)
		return nil, false
	}
	return img, true
}

func (d *Daemon) imageResources(fingerprint string) map[string][]string {
	return map[string][]string{"images": urls(d.APIVersion, "images", []string{fingerprint})}
}

func (d *Daemon) listImages(w http.ResponseWriter, r *http.Request) {
	query, err := d.listQuery(r)
	if err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	publicOnly := query.Filter == "public eq true"
	var names []string
	for _, fp := range sortedKeys(d.images) {
		if publicOnly && !d.images[fp].Public {
			continue
		}
		names = append(names, fp)
	}
	WriteSync(w, http.StatusOK, urls(d.APIVersion, "images", names))
}

func (d *Daemon) createImage(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		d.importImage(w, r)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		BadRequest(w, err)
		return
	}
	if len(data) == 0 {
		BadRequest(w, fmt.Errorf("empty image upload"))
		return
	}
	properties := map[string]string{}
	if raw := r.Header.Get("X-LXD-properties"); raw != "" {
		values, err := url.ParseQuery(raw)
		if err != nil {
			BadRequest(w, fmt.Errorf("invalid X-LXD-properties: %w", err))
			return
		}
		for k := range values {
			properties[k] = values.Get(k)
		}
	}
	public := r.Header.Get("X-LXD-Public") == "1" || strings.EqualFold(r.Header.Get("X-LXD-Public"), "true")
	filename := r.Header.Get("X-LXD-filename")

	sum := sha256.Sum256(data)
	fingerprint := hex.EncodeToString(sum[:])
	op := d.newOperation("Uploading image", d.imageResources(fingerprint), func(op *entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.images[fingerprint]; ok {
			return fmt.Errorf("image with same fingerprint already exists")
		}
		now := time.Now().UTC()
		d.images[fingerprint] = &image{
			Image: entities.Image{
				ImagePut:     entities.ImagePut{Public: public, Properties: properties},
				Architecture: "x86_64",
				Filename:     filename,
				Fingerprint:  fingerprint,
				Size:         int64(len(data)),
				CreatedAt:    now,
				UploadedAt:   now,
			},
			data: data,
		}
		op.Metadata = map[string]interface{}{"fingerprint": fingerprint, "size": len(data)}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

// importImage copies an image that the daemon already knows under another
// alias or fingerprint. Remote sources are refused.
func (d *Daemon) importImage(w http.ResponseWriter, r *http.Request) {
	var req entities.ImagesPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Source == nil {
		BadRequest(w, fmt.Errorf("image source is required"))
		return
	}
	op := d.newOperation("Downloading image", map[string][]string{}, func(op *entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		if req.Source.Type != "image" {
			return fmt.Errorf("unsupported image source type %q", req.Source.Type)
		}
		img, err := d.resolveImage(req.Source.Alias, req.Source.Fingerprint)
		if err != nil {
			return err
		}
		img.Public = img.Public || req.Public
		img.AutoUpdate = req.AutoUpdate
		for _, a := range req.Aliases {
			d.aliases[a.Name] = entities.ImageAliasesEntry{
				Name:                 a.Name,
				ImageAliasesEntryPut: entities.ImageAliasesEntryPut{Description: a.Description, Target: img.Fingerprint},
			}
		}
		op.Metadata = map[string]interface{}{"fingerprint": img.Fingerprint, "size": img.Size}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) getImage(w http.ResponseWriter, r *http.Request) {
	img, ok := d.lookupImage(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	WriteSync(w, http.StatusOK, d.imageView(img))
}

func (d *Daemon) updateImage(w http.ResponseWriter, r *http.Request) {
	img, ok := d.lookupImage(w, r)
	if !ok {
		return
	}
	var req entities.ImagePut
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	img.ImagePut = req
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) deleteImage(w http.ResponseWriter, r *http.Request) {
	img, ok := d.lookupImage(w, r)
	if !ok {
		return
	}
	fingerprint := img.Fingerprint
	op := d.newOperation("Deleting image", d.imageResources(fingerprint), func(*entities.Operation) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.images, fingerprint)
		for name, a := range d.aliases {
			if a.Target == fingerprint {
				delete(d.aliases, name)
			}
		}
		return nil
	})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) exportImage(w http.ResponseWriter, r *http.Request) {
	img, ok := d.lookupImage(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	data := img.data
	public := img.Public
	secrets := img.secrets
	d.mu.Unlock()
	if !public && r.Form.Get("secret") != "" && !contains(secrets, r.Form.Get("secret")) {
		Error(w, http.StatusForbidden, "invalid image secret")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (d *Daemon) imageSecret(w http.ResponseWriter, r *http.Request) {
	img, ok := d.lookupImage(w, r)
	if !ok {
		return
	}
	secret := uuid.New().String()
	d.mu.Lock()
	img.secrets = append(img.secrets, secret)
	d.mu.Unlock()
	op := d.newToken("Image secret", d.imageResources(img.Fingerprint), map[string]interface{}{"secret": secret})
	WriteAsync(w, d.APIVersion, op, op.ID)
}

func (d *Daemon) listAliases(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []string{}
	for _, name := range sortedKeys(d.aliases) {
		list = append(list, fmt.Sprintf("/%s/images/aliases/%s", d.APIVersion, url.PathEscape(name)))
	}
	WriteSync(w, http.StatusOK, list)
}

func (d *Daemon) createAlias(w http.ResponseWriter, r *http.Request) {
	var req entities.ImageAliasesPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	if req.Name == "" {
		BadRequest(w, fmt.Errorf("alias name is required"))
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.aliases[req.Name]; ok {
		Conflict(w, "alias "+req.Name)
		return
	}
	if _, ok := d.images[req.Target]; !ok {
		NotFound(w, "image "+req.Target)
		return
	}
	d.aliases[req.Name] = req.ImageAliasesEntry
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) lookupAlias(w http.ResponseWriter, r *http.Request) (entities.ImageAliasesEntry, bool) {
	name := GetName(r)
	d.mu.Lock()
	a, ok := d.aliases[name]
	d.mu.Unlock()
	if !ok {
		NotFound(w, "alias "+name)
	}
	return a, ok
}

func (d *Daemon) getAlias(w http.ResponseWriter, r *http.Request) {
	a, ok := d.lookupAlias(w, r)
	if !ok {
		return
	}
	WriteSync(w, http.StatusOK, a)
}

func (d *Daemon) updateAlias(w http.ResponseWriter, r *http.Request) {
	a, ok := d.lookupAlias(w, r)
	if !ok {
		return
	}
	var req entities.ImageAliasesEntryPut
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.images[req.Target]; !ok {
		NotFound(w, "image "+req.Target)
		return
	}
	a.ImageAliasesEntryPut = req
	d.aliases[a.Name] = a
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) renameAlias(w http.ResponseWriter, r *http.Request) {
	a, ok := d.lookupAlias(w, r)
	if !ok {
		return
	}
	var req entities.ImageAliasesEntryPost
	if err := decodeBody(r, &req); err != nil {
		BadRequest(w, err)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.aliases[req.Name]; ok {
		Conflict(w, "alias "+req.Name)
		return
	}
	delete(d.aliases, a.Name)
	a.Name = req.Name
	d.aliases[a.Name] = a
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func (d *Daemon) deleteAlias(w http.ResponseWriter, r *http.Request) {
	a, ok := d.lookupAlias(w, r)
	if !ok {
		return
	}
	d.mu.Lock()
	delete(d.aliases, a.Name)
	d.mu.Unlock()
	WriteSync(w, http.StatusOK, map[string]interface{}{})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
