package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/vaultdeck/pkg/adapters/anki"
	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/core"
	"github.com/aretw0/vaultdeck/pkg/engine"
	"github.com/aretw0/vaultdeck/pkg/notes"
)

// DefaultCacheDirName is created inside the vault when hashes_cache_dir is unset.
const DefaultCacheDirName = ".vaultdeck"

// Config is the vaultdeck configuration file.
type Config struct {
	Globals        GlobalsConfig `yaml:"globals"`
	Vault          VaultConfig   `yaml:"vault"`
	Regex          RegexConfig   `yaml:"regex"`
	HashesCacheDir string        `yaml:"hashes_cache_dir"`
	Workers        int           `yaml:"workers"`
}

// GlobalsConfig groups the settings of the remote store.
type GlobalsConfig struct {
	Anki AnkiConfig `yaml:"anki"`
}

// AnkiConfig configures AnkiConnect and the records sent to it.
type AnkiConfig struct {
	URL                    string        `yaml:"url"`
	DeckName               string        `yaml:"deck_name"`
	Tags                   []string      `yaml:"tags"`
	FineGrainedImageSearch bool          `yaml:"fine_grained_image_search"`
	Query                  string        `yaml:"query"`
	APIKey                 string        `yaml:"api_key"`
	Timeout                time.Duration `yaml:"timeout"`
	RequestsPerSecond      float64       `yaml:"requests_per_second"`
}

// VaultConfig locates the vault and narrows the documents scanned.
type VaultConfig struct {
	DirPath                   string   `yaml:"dir_path"`
	MediasDirPath             string   `yaml:"medias_dir_path"`
	ExcludeDirsFromScan       []string `yaml:"exclude_dirs_from_scan"`
	ExcludeDottedDirsFromScan *bool    `yaml:"exclude_dotted_dirs_from_scan"`
	FilePatternsToExclude     []string `yaml:"file_patterns_to_exclude"`
}

// RegexConfig lists the record templates of every variant.
type RegexConfig struct {
	Basic         []string `yaml:"basic"`
	BasicReversed []string `yaml:"basic_reversed"`
	TypeAnswer    []string `yaml:"type_answer"`
	Cloze         []string `yaml:"cloze"`
}

// sources returns the templates of v.
func (r RegexConfig) sources(v core.Variant) []string {
	switch v {
	case core.Basic:
		return r.Basic
	case core.BasicReversed:
		return r.BasicReversed
	case core.TypeAnswer:
		return r.TypeAnswer
	case core.Cloze:
		return r.Cloze
	}
	return nil
}

// Load reads, expands, completes and validates the configuration file at path.
func Load(path string) (*Config, error) {
	path = expandPath(os.ExpandEnv(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandEnv expands environment variables in string fields.
func (c *Config) expandEnv() {
	c.Globals.Anki.URL = os.ExpandEnv(c.Globals.Anki.URL)
	c.Globals.Anki.APIKey = os.ExpandEnv(c.Globals.Anki.APIKey)
	c.Vault.DirPath = os.ExpandEnv(c.Vault.DirPath)
	c.Vault.MediasDirPath = os.ExpandEnv(c.Vault.MediasDirPath)
	c.HashesCacheDir = os.ExpandEnv(c.HashesCacheDir)
}

// resolvePaths expands a leading ~ and makes paths absolute.
func (c *Config) resolvePaths() error {
	for _, p := range []*string{&c.Vault.DirPath, &c.Vault.MediasDirPath, &c.HashesCacheDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(expandPath(*p))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Globals.Anki.URL == "" {
		c.Globals.Anki.URL = anki.DefaultURL
	}
	if c.Globals.Anki.DeckName == "" {
		c.Globals.Anki.DeckName = "Default"
	}
	if c.Globals.Anki.Query == "" {
		c.Globals.Anki.Query = engine.DefaultQuery
	}
	if c.Globals.Anki.Timeout <= 0 {
		c.Globals.Anki.Timeout = anki.DefaultTimeout
	}
	if c.Vault.ExcludeDottedDirsFromScan == nil {
		dotted := true
		c.Vault.ExcludeDottedDirsFromScan = &dotted
	}
	if c.HashesCacheDir == "" && c.Vault.DirPath != "" {
		c.HashesCacheDir = filepath.Join(c.Vault.DirPath, DefaultCacheDirName)
	}
}

// Validate checks the configuration for errors. Every problem is reported
// before anything touches the vault or the remote store.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Globals.Anki.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("globals.anki.url must be an http(s) URL: %q", c.Globals.Anki.URL))
	}
	if c.Globals.Anki.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("globals.anki.requests_per_second must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}

	if c.Vault.DirPath == "" {
		errs = append(errs, errors.New("vault.dir_path is required"))
	} else if err := requireDir("vault.dir_path", c.Vault.DirPath); err != nil {
		errs = append(errs, err)
	}
	if c.Vault.MediasDirPath == "" {
		errs = append(errs, errors.New("vault.medias_dir_path is required"))
	} else if err := requireDir("vault.medias_dir_path", c.Vault.MediasDirPath); err != nil {
		errs = append(errs, err)
	}
	// The default cache dir is created on first save.
	if c.HashesCacheDir != "" && c.HashesCacheDir != filepath.Join(c.Vault.DirPath, DefaultCacheDirName) {
		if err := requireDir("hashes_cache_dir", c.HashesCacheDir); err != nil {
			errs = append(errs, err)
		}
	}

	if err := fs.ValidatePatterns(c.Vault.FilePatternsToExclude); err != nil {
		errs = append(errs, fmt.Errorf("vault.file_patterns_to_exclude: %w", err))
	}

	if _, err := c.Templates(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Templates compiles the configured templates, in variant order.
func (c *Config) Templates() ([]*notes.Template, error) {
	var (
		templates []*notes.Template
		errs      []error
	)
	for _, v := range core.Variants() {
		for i, src := range c.Regex.sources(v) {
			t, err := notes.NewTemplate(v, src)
			if err != nil {
				errs = append(errs, fmt.Errorf("regex.%s[%d]: %w", v, i, err))
				continue
			}
			templates = append(templates, t)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: at least one regex is required", core.ErrInvalidTemplate)
	}
	return templates, nil
}

// CachePath is the location of the hash cache file of the vault.
func (c *Config) CachePath() string {
	return fs.CachePath(c.HashesCacheDir, filepath.Base(c.Vault.DirPath))
}

func requireDir(key, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", key, p)
	}
	return nil
}

func expandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
