package entities

import "time"

// ContainerSource describes what a new container is created from.
type ContainerSource struct {
	Type        string `json:"type"`
	Alias       string `json:"alias,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Server      string `json:"server,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ContainerPut holds the writable fields of a container.
type ContainerPut struct {
	Architecture int                          `json:"architecture,omitempty"`
	Config       map[string]string            `json:"config,omitempty"`
	Devices      map[string]map[string]string `json:"devices,omitempty"`
	Ephemeral    bool                         `json:"ephemeral"`
	Profiles     []string                     `json:"profiles,omitempty"`
}

// ContainersPost is the body of a container creation request.
type ContainersPost struct {
	ContainerPut
	Name   string          `json:"name"`
	Source ContainerSource `json:"source"`
}

// ContainerPost renames a container or snapshot.
type ContainerPost struct {
	Name string `json:"name"`
}

type Container struct {
	ContainerPut
	Name            string                       `json:"name"`
	CreatedAt       time.Time                    `json:"created_at"`
	ExpandedConfig  map[string]string            `json:"expanded_config,omitempty"`
	ExpandedDevices map[string]map[string]string `json:"expanded_devices,omitempty"`
	Status          string                       `json:"status"`
	StatusCode      int                          `json:"status_code"`
	Stateful        bool                         `json:"stateful"`
}

// ContainerStatePut asks the daemon to change the running state of a
// container: start, stop, restart, freeze or unfreeze.
type ContainerStatePut struct {
	Action   string `json:"action"`
	Timeout  int    `json:"timeout"`
	Force    bool   `json:"force"`
	Stateful bool   `json:"stateful,omitempty"`
}

type ContainerState struct {
	Status     string                  `json:"status"`
	StatusCode int                     `json:"status_code"`
	Pid        int64                   `json:"pid"`
	Processes  int64                   `json:"processes"`
	Network    map[string]ContainerNIC `json:"network,omitempty"`
	Memory     map[string]int64        `json:"memory,omitempty"`
	Disk       map[string]interface{}  `json:"disk,omitempty"`
	CPU        map[string]int64        `json:"cpu,omitempty"`
}

type ContainerNIC struct {
	Addresses []ContainerNICAddress `json:"addresses"`
	Hwaddr    string                `json:"hwaddr"`
	HostName  string                `json:"host_name"`
	State     string                `json:"state"`
	Type      string                `json:"type"`
}

type ContainerNICAddress struct {
	Family  string `json:"family"`
	Address string `json:"address"`
	Netmask string `json:"netmask"`
	Scope   string `json:"scope"`
}

// SnapshotsPost creates a snapshot of a container.
type SnapshotsPost struct {
	Name     string `json:"name"`
	Stateful bool   `json:"stateful"`
}

type ContainerSnapshot struct {
	Name         string            `json:"name"`
	CreatedAt    time.Time         `json:"created_at"`
	Architecture int               `json:"architecture,omitempty"`
	Config       map[string]string `json:"config,omitempty"`
	Ephemeral    bool              `json:"ephemeral"`
	Profiles     []string          `json:"profiles,omitempty"`
	Stateful     bool              `json:"stateful"`
}

// ContainerExecPost runs a command inside a container.
type ContainerExecPost struct {
	Command      []string          `json:"command"`
	Environment  map[string]string `json:"environment,omitempty"`
	WaitForWS    bool              `json:"wait-for-websocket"`
	Interactive  bool              `json:"interactive"`
	RecordOutput bool              `json:"record-output,omitempty"`
	Width        int               `json:"width,omitempty"`
	Height       int               `json:"height,omitempty"`
}

// ContainerLog is one entry of a container's log listing.
type ContainerLog struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}
