package entities

// ServerInfo is returned by GET on the versioned API root.
type ServerInfo struct {
	APIExtensions []string               `json:"api_extensions" yaml:"api_extensions"`
	APIStatus     string                 `json:"api_status" yaml:"api_status"`
	APIVersion    string                 `json:"api_version" yaml:"api_version"`
	Auth          string                 `json:"auth" yaml:"auth"`
	Public        bool                   `json:"public" yaml:"public"`
	Config        map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
	Environment   ServerEnvironment      `json:"environment" yaml:"environment"`
}

type ServerEnvironment struct {
	Addresses          []string `json:"addresses" yaml:"addresses"`
	Architectures      []string `json:"architectures" yaml:"architectures"`
	Driver             string   `json:"driver" yaml:"driver"`
	DriverVersion      string   `json:"driver_version" yaml:"driver_version"`
	Kernel             string   `json:"kernel" yaml:"kernel"`
	KernelArchitecture string   `json:"kernel_architecture" yaml:"kernel_architecture"`
	KernelVersion      string   `json:"kernel_version" yaml:"kernel_version"`
	Server             string   `json:"server" yaml:"server"`
	ServerPid          int      `json:"server_pid" yaml:"server_pid"`
	ServerVersion      string   `json:"server_version" yaml:"server_version"`
	Storage            string   `json:"storage" yaml:"storage"`
	StorageVersion     string   `json:"storage_version" yaml:"storage_version"`
}
