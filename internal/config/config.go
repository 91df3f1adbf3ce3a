// Package config handles mrbdump.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "mrbdump.toml"

// Config holds the settings shared by every command. Command line flags
// override values loaded from a file.
type Config struct {
	Debug         bool   `json:"debug" toml:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	Strict        bool   `json:"strict" toml:"strict" jsonschema:"title=Strict,description=Fail on unknown sections and line encodings instead of warning"`
	MaxDepth      int    `json:"maxDepth" toml:"max-depth" jsonschema:"title=Max Depth,description=Maximum IREP nesting depth (0 uses the decoder default),minimum=0"`
	Resolve       bool   `json:"resolve" toml:"resolve" jsonschema:"title=Resolve,description=Annotate instructions with referenced symbol names and literals"`
	NoColor       bool   `json:"noColor" toml:"no-color" jsonschema:"title=No Color,description=Disable syntax colouring"`
	FailOnWarning bool   `json:"failOnWarning" toml:"fail-on-warning" jsonschema:"title=Fail On Warning,description=Exit with an error when decoding recorded warnings"`
	Key           string `json:"key,omitempty" toml:"key" jsonschema:"title=Key,description=XXTEA key for encrypted images"`
	Signature     string `json:"signature,omitempty" toml:"signature" jsonschema:"title=Signature,description=Plain prefix marking XXTEA encrypted images"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `json:"-" toml:"-"`
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if c.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: max-depth must not be negative", path)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find an mrbdump.toml file and loads
// it. It returns an empty configuration when there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}
