package entities

import "time"

// ImageAlias is the alias information embedded in an image.
type ImageAlias struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ImagePut holds the writable fields of an image.
type ImagePut struct {
	AutoUpdate bool              `json:"auto_update"`
	Properties map[string]string `json:"properties,omitempty"`
	Public     bool              `json:"public"`
}

type Image struct {
	ImagePut
	Aliases      []ImageAlias `json:"aliases"`
	Architecture string       `json:"architecture"`
	Cached       bool         `json:"cached"`
	Filename     string       `json:"filename"`
	Fingerprint  string       `json:"fingerprint"`
	Size         int64        `json:"size"`
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
	LastUsedAt   time.Time    `json:"last_used_at"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}

// ImageSource describes where the daemon should import an image from.
type ImageSource struct {
	Type        string `json:"type"`
	Mode        string `json:"mode,omitempty"`
	Server      string `json:"server,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	Alias       string `json:"alias,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Secret      string `json:"secret,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ImagesPost is the JSON form of an image import request.
type ImagesPost struct {
	ImagePut
	Filename string       `json:"filename,omitempty"`
	Source   *ImageSource `json:"source,omitempty"`
	Aliases  []ImageAlias `json:"aliases,omitempty"`
}

// ImageAliasesEntryPut holds the writable fields of an alias.
type ImageAliasesEntryPut struct {
	Description string `json:"description"`
	Target      string `json:"target"`
}

type ImageAliasesEntry struct {
	ImageAliasesEntryPut
	Name string `json:"name"`
}

// ImageAliasesPost creates a new alias.
type ImageAliasesPost struct {
	ImageAliasesEntry
}

// ImageAliasesEntryPost renames an alias.
type ImageAliasesEntryPost struct {
	Name string `json:"name"`
}

// ImageInfo is a display-oriented summary of an image.
type ImageInfo struct {
	UploadDate   string `json:"image_upload_date"`
	CreatedDate  string `json:"image_created_date"`
	ExpiresDate  string `json:"image_expires_date"`
	Public       bool   `json:"image_public"`
	SizeMB       int64  `json:"image_size"`
	Fingerprint  string `json:"image_fingerprint"`
	Architecture string `json:"image_architecture"`
}

// ImageMetadata is the content of metadata.yaml in an image tarball.
type ImageMetadata struct {
	Architecture string                   `yaml:"architecture"`
	CreationDate int64                    `yaml:"creation_date"`
	ExpiryDate   int64                    `yaml:"expiry_date,omitempty"`
	Properties   map[string]string        `yaml:"properties,omitempty"`
	Templates    map[string]ImageTemplate `yaml:"templates,omitempty"`
}

type ImageTemplate struct {
	When       []string          `yaml:"when"`
	CreateOnly bool              `yaml:"create_only,omitempty"`
	Template   string            `yaml:"template"`
	Properties map[string]string `yaml:"properties,omitempty"`
}
