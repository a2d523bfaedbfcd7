package testdaemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type envelope struct {
	Type       string      `json:"type"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Operation  string      `json:"operation"`
	Metadata   interface{} `json:"metadata"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  int         `json:"error_code,omitempty"`
}

// WriteJSON encodes the given value as JSON and renders it for http client
func WriteJSON(w http.ResponseWriter, code int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	coder := json.NewEncoder(w)
	coder.SetEscapeHTML(true)
	if err := coder.Encode(value); err != nil {
		log.Errorf("Unable to write json: %q", err)
	}
}

// WriteSync renders a synchronous envelope.
func WriteSync(w http.ResponseWriter, code int, metadata interface{}) {
	WriteJSON(w, code, envelope{
		Type:       "sync",
		Status:     http.StatusText(code),
		StatusCode: code,
		Metadata:   metadata,
	})
}

// WriteAsync renders the envelope of a newly created background operation.
func WriteAsync(w http.ResponseWriter, version string, op interface{}, id string) {
	WriteJSON(w, http.StatusAccepted, envelope{
		Type:       "async",
		Status:     "Operation created",
		StatusCode: http.StatusAccepted,
		Operation:  fmt.Sprintf("/%s/operations/%s", version, id),
		Metadata:   op,
	})
}

// Error renders an error envelope.
func Error(w http.ResponseWriter, code int, msg string) {
	log.Infof("Failed Request: (%d:%s) %s", code, http.StatusText(code), msg)
	WriteJSON(w, code, envelope{
		Type:       "error",
		StatusCode: code,
		Error:      msg,
		ErrorCode:  code,
	})
}

func NotFound(w http.ResponseWriter, what string) {
	Error(w, http.StatusNotFound, what+" not found")
}

func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err.Error())
}

func Conflict(w http.ResponseWriter, what string) {
	Error(w, http.StatusConflict, what+" already exists")
}

func InternalServerError(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, err.Error())
}

func getVar(r *http.Request, k string) string {
	val := mux.Vars(r)[k]
	safeVal, err := url.PathUnescape(val)
	if err != nil {
		log.Errorf("Failed to unescape mux key %s, value %s: %v", k, val, err)
		return val
	}
	return safeVal
}

// GetName extracts the name from the mux
func GetName(r *http.Request) string {
	return getVar(r, "name")
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func urls(version, collection string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, fmt.Sprintf("/%s/%s/%s", version, collection, url.PathEscape(n)))
	}
	return out
}
