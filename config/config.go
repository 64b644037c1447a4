package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-ini/ini"
	"github.com/opsmgr-dash/opsmgr-dash/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// OpsManagerInstance is one monitored Ops Manager. The URL is its identity,
// the keys are the digest-auth API credentials.
type OpsManagerInstance struct {
	Url         string `yaml:"url" json:"url"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	PublicKey   string `yaml:"public_key,omitempty" json:"public_key,omitempty"`
	PrivateKey  string `yaml:"private_key,omitempty" json:"private_key,omitempty"`
	Region      string `yaml:"region,omitempty" json:"region,omitempty"`
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// DisplayName returns the configured name and falls back to the URL.
func (instance *OpsManagerInstance) DisplayName() string {
	if instance == nil {
		return ""
	}
	if len(instance.Name) > 0 {
		return instance.Name
	}
	return instance.Url
}

// Label is used as the prefix of user visible error messages.
func (instance *OpsManagerInstance) Label() string {
	if instance == nil {
		return "Unknown"
	}
	if len(instance.Region) > 0 || len(instance.Environment) > 0 {
		region := instance.Region
		if len(region) < 1 {
			region = "Unknown"
		}
		env := instance.Environment
		if len(env) < 1 {
			env = "Unknown"
		}
		return region + "-" + env
	}
	return instance.Url
}

func (instance *OpsManagerInstance) Verify() error {
	if instance == nil || len(instance.Url) < 3 {
		return fmt.Errorf("invalid ops manager instance, an URL is required")
	}
	return nil
}

// Config holds the configuration of the dashboard service
type Config struct {
	Filename        string                `yaml:"-" json:"-"`
	Instances       []*OpsManagerInstance `yaml:"instances,omitempty" json:"instances,omitempty"`
	Timeout         int                   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Logfile         string                `yaml:"logfile,omitempty" json:"logfile,omitempty"`
	CacheDir        string                `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
	HistoryFile     string                `yaml:"history_file,omitempty" json:"history_file,omitempty"`
	Port            int                   `yaml:"port,omitempty" json:"port,omitempty"`
	FrontendUrl     string                `yaml:"frontend_url,omitempty" json:"frontend_url,omitempty"`
	CredentialsFile string                `yaml:"credentials_file,omitempty" json:"credentials_file,omitempty"`
	SessionSecret   string                `yaml:"session_secret,omitempty" json:"session_secret,omitempty"`
}

func (cfg *Config) Save() error {
	if cfg == nil || len(cfg.Filename) < 1 {
		return fmt.Errorf("can't save configuration, no file name")
	}

	var contents []byte
	var err error
	if strings.HasSuffix(cfg.Filename, ".json") {
		contents, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		contents, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(cfg.Filename, contents, 0644)
}

// Load reads the configuration from a JSON or YAML file (decided by the file
// extension), applies the defaults and re-creates the global logger.
func Load(filename string) (*Config, error) {
	config := new(Config)

	contents, err := os.ReadFile(filename)
	if err != nil {
		config.setDefaults()
		return config, err
	}

	if strings.HasSuffix(filename, ".json") {
		err = json.Unmarshal(contents, config)
	} else {
		err = yaml.Unmarshal(contents, config)
	}
	if err != nil {
		config.setDefaults()
		return config, err
	}

	config.Filename = filename
	config.setDefaults()

	if len(config.CredentialsFile) > 0 {
		if err := config.applyCredentials(config.CredentialsFile); err != nil {
			return config, err
		}
	}

	// re-create the logger using the specified file name
	loggerConfig := logger.DefaultConfig()
	loggerConfig.LogFileName = config.Logfile
	logger.New(loggerConfig) // this replaces the global

	zap.L().Info(fmt.Sprintf("Loaded configuration (%d ops manager instances)", len(config.Instances)))
	zap.L().Info(fmt.Sprintf("Using logfile %s", config.Logfile))

	return config, nil
}

func (cfg *Config) setDefaults() {
	// we don't want nulls
	if cfg.Instances == nil {
		cfg.Instances = make([]*OpsManagerInstance, 0)
	}
	// default minimum timeout value
	if cfg.Timeout <= 30 {
		cfg.Timeout = 30
	}
	if len(cfg.Logfile) < 1 {
		cfg.Logfile = "opsmgr-dash.log"
	}
	if len(cfg.CacheDir) < 1 {
		cfg.CacheDir = "cache"
	}
	if len(cfg.HistoryFile) < 1 {
		cfg.HistoryFile = "probe-history.db"
	}
	if cfg.Port <= 0 {
		cfg.Port = 19501
	}
}

// applyCredentials overlays API keys from an INI file, so the secrets can be
// kept out of the instance list. Sections are matched by instance name first,
// then by URL.
func (cfg *Config) applyCredentials(filename string) error {
	creds, err := ini.Load(filename)
	if err != nil {
		return fmt.Errorf("can't read credentials file %s: %s", filename, err.Error())
	}

	for _, instance := range cfg.Instances {
		section := lookupSection(creds, instance.Name, instance.Url)
		if section == nil {
			continue
		}
		if key := section.Key("public_key").String(); len(key) > 0 {
			instance.PublicKey = key
		}
		if key := section.Key("private_key").String(); len(key) > 0 {
			instance.PrivateKey = key
		}
	}
	return nil
}

func lookupSection(creds *ini.File, names ...string) *ini.Section {
	for _, name := range names {
		if len(name) < 1 {
			continue
		}
		if section, err := creds.GetSection(name); err == nil {
			return section
		}
	}
	return nil
}

// InstanceByUrl returns the instance with the specified URL (or nil)
func (cfg *Config) InstanceByUrl(url string) *OpsManagerInstance {
	for _, instance := range cfg.Instances {
		if instance != nil && instance.Url == url {
			return instance
		}
	}
	return nil
}

// FilterInstances returns the instances matching the selected regions and
// environments. An empty selection matches everything on that axis.
func (cfg *Config) FilterInstances(regions, environments []string) []*OpsManagerInstance {
	matching := make([]*OpsManagerInstance, 0, len(cfg.Instances))
	for _, instance := range cfg.Instances {
		if instance == nil {
			continue
		}
		if len(regions) > 0 && !contains(regions, instance.Region) {
			continue
		}
		if len(environments) > 0 && !contains(environments, instance.Environment) {
			continue
		}
		matching = append(matching, instance)
	}
	return matching
}

// Regions returns the unique region tags, sorted.
func (cfg *Config) Regions() []string {
	return uniqueTags(cfg.Instances, func(i *OpsManagerInstance) string { return i.Region })
}

// Environments returns the unique environment tags, sorted.
func (cfg *Config) Environments() []string {
	return uniqueTags(cfg.Instances, func(i *OpsManagerInstance) string { return i.Environment })
}

func uniqueTags(instances []*OpsManagerInstance, tag func(*OpsManagerInstance) string) []string {
	seen := make(map[string]bool)
	retval := make([]string, 0, len(instances))
	for _, instance := range instances {
		if instance == nil {
			continue
		}
		if t := tag(instance); len(t) > 0 && !seen[t] {
			seen[t] = true
			retval = append(retval, t)
		}
	}
	sort.Strings(retval)
	return retval
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
