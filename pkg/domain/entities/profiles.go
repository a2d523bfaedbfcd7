package entities

// ProfilePut holds the writable fields of a profile.
type ProfilePut struct {
	Config      map[string]string            `json:"config,omitempty"`
	Description string                       `json:"description"`
	Devices     map[string]map[string]string `json:"devices,omitempty"`
}

type Profile struct {
	ProfilePut
	Name   string   `json:"name"`
	UsedBy []string `json:"used_by,omitempty"`
}

// ProfilesPost creates a profile.
type ProfilesPost struct {
	ProfilePut
	Name string `json:"name"`
}

// ProfilePost renames a profile.
type ProfilePost struct {
	Name string `json:"name"`
}
