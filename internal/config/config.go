// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	errs "notionsite/internal/errors"
)

// Source kinds for the document tree.
const (
	SourceNotion = "notion"
	SourceFile   = "file"
)

// DefaultRootURL is the Notion page the site is built from when site.yaml
// does not name one.
const DefaultRootURL = "https://www.notion.so/learningequality/Notion-home-b82d70274cb74aa8b49bc6088e6a501f"

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Port int `yaml:"port"` // 0 disables the server
}

// SiteConfig holds the configuration from the site.yaml file.
type SiteConfig struct {
	RootURL      string        `yaml:"root_url"`
	Source       string        `yaml:"source"`
	SourceFile   string        `yaml:"source_file"`
	SrcDir       string        `yaml:"src_dir"`
	BuildDir     string        `yaml:"build_dir"`
	LandingTitle string        `yaml:"landing_title"`
	Unsafe       bool          `yaml:"unsafe"`
	Interval     Duration      `yaml:"interval"`
	FetchTimeout Duration      `yaml:"fetch_timeout"`
	Preview      PreviewConfig `yaml:"preview"`
}

// Defaults returns the configuration used when site.yaml is absent.
func Defaults() SiteConfig {
	return SiteConfig{
		RootURL:      DefaultRootURL,
		Source:       SourceNotion,
		SrcDir:       "src",
		BuildDir:     "build",
		LandingTitle: "Home",
		Interval:     Duration(time.Second),
	}
}

// LoadSiteConfig reads path over the defaults. A missing file is not an
// error; the defaults are returned as they are.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field combinations that yaml cannot express.
func (c SiteConfig) Validate() error {
	switch c.Source {
	case SourceNotion:
		if c.RootURL == "" {
			return errs.ConfigError("root_url is required for the notion source").Build()
		}
	case SourceFile:
		if c.SourceFile == "" {
			return errs.ConfigError("source_file is required for the file source").Build()
		}
	default:
		return errs.ConfigError(fmt.Sprintf("unknown source %q", c.Source)).WithContext("source", c.Source).Build()
	}
	if c.SrcDir == "" || c.BuildDir == "" {
		return errs.ConfigError("src_dir and build_dir must not be empty").Build()
	}
	if c.Interval <= 0 {
		return errs.ConfigError("interval must be positive").WithContext("interval", c.Interval.String()).Build()
	}
	if c.FetchTimeout < 0 {
		return errs.ConfigError("fetch_timeout must not be negative").Build()
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errs.ConfigError("preview.port out of range").WithContext("port", c.Preview.Port).Build()
	}
	return nil
}

// MediaDir is where downloaded images are cached.
func (c SiteConfig) MediaDir() string { return filepath.Join(c.BuildDir, "media") }

// AssetsDir is the source static assets directory.
func (c SiteConfig) AssetsDir() string { return filepath.Join(c.SrcDir, "assets") }

// OutputAssetsDir is the mirrored copy of AssetsDir.
func (c SiteConfig) OutputAssetsDir() string { return filepath.Join(c.BuildDir, "assets") }

// Duration is a time.Duration written as a Go duration string ("1s", "500ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
