// Package config reads the client configuration of the bindings.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAPIVersion is the API version requested by default.
	DefaultAPIVersion = "1.0"
	// DefaultDeleteRetries bounds how often a delete is re-issued while the
	// daemon still reports the resource as missing.
	DefaultDeleteRetries = 10
	// DefaultPollInterval is the first delay between two operation polls.
	DefaultPollInterval = 500 * time.Millisecond

	defaultSocketDir = "/var/lib/lxd"
	socketName       = "unix.socket"
	configDirName    = "lxdremote"
	configFileName   = "client.toml"
)

// Config is the client configuration.
type Config struct {
	// Socket is the path of the daemon's unix socket.
	Socket string `toml:"socket,omitempty"`
	// APIVersion is the leading path segment of API requests.
	APIVersion string `toml:"api_version,omitempty"`
	// WaitTimeout bounds operation waits, as a duration string. Empty
	// waits until the operation completes.
	WaitTimeout string `toml:"wait_timeout,omitempty"`
	// DeleteRetries bounds delete retries on a not found answer.
	DeleteRetries int `toml:"delete_retries,omitempty"`
	// PollInterval is the initial interval of client side operation polling.
	PollInterval string `toml:"poll_interval,omitempty"`
}

// DefaultSocketPath returns the socket of the local daemon: LXD_SOCKET if
// set, else unix.socket in LXD_DIR, else the system location.
func DefaultSocketPath() string {
	if socket := os.Getenv("LXD_SOCKET"); socket != "" {
		return socket
	}
	if dir := os.Getenv("LXD_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(defaultSocketDir, socketName)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Socket:        DefaultSocketPath(),
		APIVersion:    DefaultAPIVersion,
		DeleteRetries: DefaultDeleteRetries,
		PollInterval:  DefaultPollInterval.String(),
	}
}

// Path returns the default location of the configuration file.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// ReadConfig layers the file at path over the defaults. A missing file is not
// an error. Environment overrides win over the file.
func ReadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "decode configuration %v", path)
		}
		logrus.Debugf("No client configuration at %s, using defaults", path)
	} else {
		logrus.Debugf("Read client configuration %s", path)
	}

	if socket := os.Getenv("LXD_SOCKET"); socket != "" {
		cfg.Socket = socket
	} else if dir := os.Getenv("LXD_DIR"); dir != "" {
		cfg.Socket = filepath.Join(dir, socketName)
	}
	return cfg, cfg.Validate()
}

// Validate checks the duration members.
func (c *Config) Validate() error {
	if c.DeleteRetries < 0 {
		return errors.Errorf("delete_retries must not be negative, got %d", c.DeleteRetries)
	}
	if _, err := c.WaitTimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.PollIntervalDuration(); err != nil {
		return err
	}
	return nil
}

// WaitTimeoutDuration returns the wait timeout, nil meaning no client
// deadline.
func (c *Config) WaitTimeoutDuration() (*time.Duration, error) {
	if c.WaitTimeout == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.WaitTimeout)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid wait_timeout %q", c.WaitTimeout)
	}
	if d < 0 {
		return nil, errors.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout)
	}
	return &d, nil
}

// PollIntervalDuration returns the polling interval.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	if c.PollInterval == "" {
		return DefaultPollInterval, nil
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid poll_interval %q", c.PollInterval)
	}
	if d <= 0 {
		return 0, errors.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return d, nil
}

// Write stores the configuration at path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
