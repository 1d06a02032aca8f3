package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigFile = "codegen.config.yml"

const componentsSeparator = "\n# Installed components (managed by dev-toolkit, do not edit below this line)\n"

// Config represents the codegen.config.yml file, including the installation manifest.
type Config struct {
	Schema      string  `yaml:"$schema,omitempty"`
	TypeScript  bool    `yaml:"typescript"`
	RegistryURL string  `yaml:"registryUrl"`
	Aliases     Aliases `yaml:"aliases"`
	Paths       Paths   `yaml:"paths"`

	Components Components `yaml:"components"`
}

// configUserFields is the subset of Config that users edit.
// Used for two-pass marshaling so the components section stays below a comment.
type configUserFields struct {
	Schema      string  `yaml:"$schema,omitempty"`
	TypeScript  bool    `yaml:"typescript"`
	RegistryURL string  `yaml:"registryUrl"`
	Aliases     Aliases `yaml:"aliases"`
	Paths       Paths   `yaml:"paths"`
}

type configComponentsFields struct {
	Components Components `yaml:"components"`
}

// Aliases are the import prefixes used in the user's project.
type Aliases struct {
	Utils string `yaml:"utils"`
	Hooks string `yaml:"hooks"`
}

// Paths are the project-relative directories components are written to.
type Paths struct {
	Hooks string `yaml:"hooks"`
	Utils string `yaml:"utils"`
}

// ConfigExists checks whether the config file exists in the given directory.
func ConfigExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

// LoadConfig reads and parses the config file from the given directory.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: run 'dev-toolkit init' first")
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	// typescript defaults to true when the key is absent
	c := Config{TypeScript: true}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&c)

	if err := ValidateConfig(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.RegistryURL == "" {
		c.RegistryURL = DefaultRegistryURL
	}
}

// SaveConfig writes the config file to the given directory.
// It uses two-pass marshaling: user fields first, then a comment separator,
// then the components section.
func SaveConfig(dir string, c *Config) error {
	applyDefaults(c)

	userPart := configUserFields{
		Schema:      c.Schema,
		TypeScript:  c.TypeScript,
		RegistryURL: c.RegistryURL,
		Aliases:     c.Aliases,
		Paths:       c.Paths,
	}

	userBytes, err := yaml.Marshal(userPart)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	content := userBytes
	if c.Components.Len() > 0 {
		componentsBytes, marshalErr := yaml.Marshal(configComponentsFields{Components: c.Components})
		if marshalErr != nil {
			return fmt.Errorf("marshaling components: %w", marshalErr)
		}
		content = append(content, []byte(componentsSeparator)...)
		content = append(content, componentsBytes...)
	}

	path := filepath.Join(dir, ConfigFile)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}

	return nil
}

// ValidateConfig checks that a Config struct has required fields.
func ValidateConfig(c *Config) error {
	var issues []error
	if c.Aliases.Utils == "" {
		issues = append(issues, errors.New("aliases.utils: required"))
	}
	if c.Aliases.Hooks == "" {
		issues = append(issues, errors.New("aliases.hooks: required"))
	}
	if c.Paths.Hooks == "" {
		issues = append(issues, errors.New("paths.hooks: required"))
	}
	if c.Paths.Utils == "" {
		issues = append(issues, errors.New("paths.utils: required"))
	}
	if u, err := url.Parse(c.RegistryURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Errorf("registryUrl: %q is not an http(s) URL", c.RegistryURL))
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(issues...))
	}
	return nil
}
