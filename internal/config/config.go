package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/yamashi/xmake/internal/paths"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfig = errors.New("configuration error")
)

// Holds the persisted daemon configuration.
//
// The listen address has no default: a daemon reachable by remote build
// clients must be addressed deliberately, so its absence is a startup error
// rather than a silent bind to some interface.
type Config struct {

	// Address the server listens on, in host:port form. Required.
	Listen string `yaml:"listen"`

	// Name of the version control client binary that must be present on
	// the host. Empty uses "git".
	VCSClient string `yaml:"vcs_client"`

	// Root directory under which session workspaces are allocated. Empty
	// uses the platform default.
	WorkspaceRoot string `yaml:"workspace_root"`
}

// Returns a configuration populated with platform defaults for every field
// that has one. The listen address is deliberately left empty.
func Default() *Config {
	return &Config{
		VCSClient:     "git",
		WorkspaceRoot: paths.Workspaces(),
	}
}

// Loads the configuration file at path, merging it over the defaults.
//
// A missing file is not an error: the daemon can run entirely from flags.
// A file that exists but cannot be read or parsed is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrConfig, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrConfig, path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Re-applies defaults for fields the file set to an empty value.
func (c *Config) applyDefaults() {
	if c.VCSClient == "" {
		c.VCSClient = "git"
	}
	if c.WorkspaceRoot == "" {
		c.WorkspaceRoot = paths.Workspaces()
	}
}

// Checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, fmt.Errorf("%w: listen address is required (set \"listen\" in %s or pass --listen)", ErrConfig, paths.ConfigFile()))
	}
	if c.VCSClient == "" {
		errs = append(errs, fmt.Errorf("%w: vcs_client is required", ErrConfig))
	}
	if c.WorkspaceRoot == "" {
		errs = append(errs, fmt.Errorf("%w: workspace_root is required", ErrConfig))
	}

	return errors.Join(errs...)
}
