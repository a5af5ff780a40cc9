package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	homeEnv    = "UNSUB_HOME"
	envPrefix  = "UNSUB"
	configDir  = ".desuscripcion"
	configFile = "config.json"
	logFile    = "desuscripcion.log"
	storeFile  = "unsubscriptions.db"
)

// Profile describes one unsubscribe endpoint. An empty Endpoint means the
// submission is simulated locally.
//
// timeout_seconds is always written: viper drops profiles that are empty
// objects when it reads the file back.
type Profile struct {
	Endpoint       string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Token          string `json:"token,omitempty" mapstructure:"token"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Selectors override where the controller finds its elements; empty values
// keep the controller defaults.
type Selectors struct {
	Form         string `json:"form,omitempty" mapstructure:"form"`
	CheckboxRows string `json:"checkbox_rows,omitempty" mapstructure:"checkbox_rows"`
	Overlay      string `json:"overlay,omitempty" mapstructure:"overlay"`
	Icon         string `json:"icon,omitempty" mapstructure:"icon"`
	Preloader    string `json:"preloader,omitempty" mapstructure:"preloader"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles" mapstructure:"profiles"`
	ActiveProfile  string             `json:"active_profile" mapstructure:"active_profile"`
	Selectors      Selectors          `json:"selectors" mapstructure:"selectors"`
	Page           string             `json:"page,omitempty" mapstructure:"page"`
	currentProfile *Profile
	// fromEnv marks a config with UNSUB_* overrides applied; it is never saved.
	fromEnv bool
}

// LoadConfig reads the config file with UNSUB_* environment overrides
// applied on top. Use it to run the form; use LoadEditableConfig to change
// and save the file.
func LoadConfig() (*Config, error) {
	return load(true)
}

// LoadEditableConfig reads the config file as it is on disk, without
// environment overrides, so Save writes back only what the user edited.
func LoadEditableConfig() (*Config, error) {
	return load(false)
}

func load(withEnv bool) (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath, withEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the active profile points at a real endpoint.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.Endpoint != ""
}

func (c *Config) GetEndpoint() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.Endpoint
}

func (c *Config) GetToken() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.Token
}

func (c *Config) GetTimeout() time.Duration {
	if c.currentProfile == nil || c.currentProfile.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.currentProfile.TimeoutSeconds) * time.Second
}

// ProfileNames returns the configured profiles sorted by name.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Use switches the active profile.
func (c *Config) Use(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// LogPath is where hosts that own stdout write their log.
func LogPath() (string, error) {
	return dataPath(logFile)
}

// StorePath is the default database of the development endpoint.
func StorePath() (string, error) {
	return dataPath(storeFile)
}

func dataPath(name string) (string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(configPath), name), nil
}

func getConfigPath() (string, error) {
	var dir string

	// Use UNSUB_HOME if set, otherwise use user's home directory
	if home := os.Getenv(homeEnv); home != "" {
		dir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = homeDir
	}

	return filepath.Join(dir, configDir, configFile), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string, withEnv bool) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err := createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
		config.fromEnv = withEnv
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.fromEnv = withEnv

	return &config, nil
}

func defaultConfig() *Config {
	return &Config{
		Profiles: map[string]Profile{
			"default": {},
		},
		ActiveProfile: "default",
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// Save default config to file
	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// ErrEnvOverrides is returned when saving a config loaded with LoadConfig.
var ErrEnvOverrides = errors.New("config carries environment overrides; load it with LoadEditableConfig to save")

// Save writes the config file. Only configs from LoadEditableConfig can be
// saved, so environment overrides never end up on disk.
func (c *Config) Save() error {
	if c.fromEnv {
		return ErrEnvOverrides
	}

	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, fall back to the first one by name
		name := c.ProfileNames()[0]
		c.ActiveProfile = name
		profile = c.Profiles[name]
	}

	c.currentProfile = &profile
	return nil
}
