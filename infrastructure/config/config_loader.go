package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform"
)

const (
	FileName = "portsheet.yaml"
	AppName  = "portsheet"

	DefaultTransport = entities.TransportSSH
	DefaultOutput    = "switch_inventory.xlsx"
	DefaultTimeout   = 60 * time.Second
	DefaultSNMPPort  = 161
)

// Config holds the settings that can come from the YAML file
type Config struct {
	Platform       string `yaml:"platform"`
	Transport      string `yaml:"transport"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	EnablePassword string `yaml:"enable_password"`
	Output         string `yaml:"output"`
	Timeout        string `yaml:"timeout"`
	SNMPCommunity  string `yaml:"snmp_community"`
	SNMPPort       int    `yaml:"snmp_port"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	return &Config{
		Transport: DefaultTransport,
		Output:    DefaultOutput,
		Timeout:   DefaultTimeout.String(),
		SNMPPort:  DefaultSNMPPort,
	}
}

// Load reads a YAML file on top of the defaults and validates it
func Load(yamlFile string) (*Config, error) {
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %v", yamlFile, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %v", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", yamlFile, err)
	}
	return cfg, nil
}

// Normalize trims and lowercases identifiers and fills empty fields with defaults
func (c *Config) Normalize() {
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform != "" {
		c.Platform = platform.Canonical(c.Platform)
	}
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = DefaultTransport
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = DefaultOutput
	}
	if strings.TrimSpace(c.Timeout) == "" {
		c.Timeout = DefaultTimeout.String()
	}
	if c.SNMPPort == 0 {
		c.SNMPPort = DefaultSNMPPort
	}
}

// Validate checks every field that has a closed set of values
func (c *Config) Validate() error {
	if c.Platform != "" {
		if _, err := platform.Get(c.Platform); err != nil {
			return err
		}
	}
	if c.Transport != entities.TransportSSH && c.Transport != entities.TransportTelnet {
		return fmt.Errorf("transport %s is invalid, must be 'ssh' or 'telnet'", c.Transport)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.SNMPPort < 1 || c.SNMPPort > 65535 {
		return fmt.Errorf("snmp_port %d is out of range", c.SNMPPort)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses the timeout as a Go duration ("90s", "2m") or a
// plain number of seconds
func (c *Config) TimeoutDuration() (time.Duration, error) {
	value := strings.TrimSpace(c.Timeout)
	if value == "" {
		return DefaultTimeout, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		value = strconv.Itoa(seconds) + "s"
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("timeout %q is invalid: %v", c.Timeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", c.Timeout)
	}
	return timeout, nil
}

// ToTarget builds the run target for address
func (c *Config) ToTarget(address string, verbosityLevel int) (entities.Target, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return entities.Target{}, err
	}
	target := entities.Target{
		Address:        strings.TrimSpace(address),
		Port:           c.Port,
		Transport:      c.Transport,
		Username:       c.Username,
		Password:       c.Password,
		EnablePassword: c.EnablePassword,
		Platform:       c.Platform,
		Timeout:        timeout,
		VerbosityLevel: verbosityLevel,
	}
	if target.Address == "" {
		return entities.Target{}, fmt.Errorf("target address is required")
	}
	if target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Target %s: Platform=%s, Transport=%s, Port=%d, Timeout=%s\n", target.Address, target.Platform, target.Transport, target.Port, target.Timeout)
	}
	return target, nil
}

// SearchPaths lists the places a configuration file is looked for, in order
func SearchPaths() []string {
	possiblePaths := []string{
		filepath.Join(".", FileName),
	}

	if runtime.GOOS == "windows" {
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(appDataDir, AppName, FileName))
		}
		if programDataDir := os.Getenv("ProgramData"); programDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(programDataDir, AppName, FileName))
		}
		return possiblePaths
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(userConfigDir, AppName, FileName))
	}
	return append(possiblePaths, filepath.Join("/etc", AppName, FileName))
}

// Find returns the first existing file among paths
func Find(paths []string) (string, bool) {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
