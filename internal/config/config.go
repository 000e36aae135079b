package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultChain    = "sepolia"
	defaultLogLevel = "info"
	defaultRPCAlgo  = "fastest"

	configFile = "config.json"
	envFile    = ".env"
	logFile    = "piggybank.log"
)

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.piggybank.
//
// A .env file in the working directory or in dir is loaded first; variables
// already present in the environment win over both. WALLETCONNECT_PROJECT_ID
// overrides the project ID stored in config.json without replacing it, so
// Save keeps the file's own value.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".piggybank")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	if err := loadDotEnv(envFile, filepath.Join(dir, envFile)); err != nil {
		return nil, err
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	cfg.envProjectID = strings.TrimSpace(os.Getenv(EnvProjectID))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ProjectID returns the WalletConnect project ID in effect: the environment
// override when set, the stored value otherwise.
func (c *Config) ProjectID() string {
	if c.envProjectID != "" {
		return c.envProjectID
	}
	return c.WalletConnectProjectID
}

// ProjectIDFromEnv reports whether the environment overrides the stored ID.
func (c *Config) ProjectIDFromEnv() bool {
	return c.envProjectID != ""
}

// HasProjectID reports whether a real WalletConnect project ID is in effect.
func (c *Config) HasProjectID() bool {
	return realProjectID(c.ProjectID())
}

// SetProjectID stores id as the WalletConnect project ID.
func (c *Config) SetProjectID(id string) error {
	id = strings.TrimSpace(id)
	if !realProjectID(id) {
		return errors.New("project ID must not be empty or the placeholder")
	}
	c.WalletConnectProjectID = id
	return nil
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	if len(c.CustomRPCs[chain]) == 0 {
		delete(c.CustomRPCs, chain)
	}
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LogPath returns the log file the TUI writes to.
func (c *Config) LogPath() string {
	return filepath.Join(c.configDir, logFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		WalletConnectProjectID: ProjectIDPlaceholder,
		DefaultChain:           defaultChain,
		CustomRPCs:             make(map[string][]string),
		LogLevel:               defaultLogLevel,
		ShowQR:                 true,
		RPCAlgorithm:           defaultRPCAlgo,
		configDir:              dir,
	}
}

// loadDotEnv loads every existing file in paths. godotenv.Load never
// overrides variables that are already set.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func realProjectID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != ProjectIDPlaceholder
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}
