package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// APIKeyEnv is the environment variable holding the New Relic user API key.
	APIKeyEnv = "NEW_RELIC_API_KEY"

	// legacyAPIKeyEnv is accepted when APIKeyEnv is unset.
	legacyAPIKeyEnv = "NEWRELIC_API_KEY"

	DefaultLocatorQuery = "domain = 'SYNTH' AND type = 'MONITOR'"
	DefaultOutputDir    = "output"
	DefaultWorkers      = 10

	ManifestFile = "monitor.csv"
	ScriptsDir   = "scripts"
	TerraformDir = "terraform"
)

var (
	ErrMissingAPIKey = fmt.Errorf("a New Relic API key is required (%s)", APIKeyEnv)
	ErrNoWorkers     = errors.New("at least one parallel worker is required")
)

// Config carries everything a run needs. The struct tags are read by kong, so
// the same type backs the standalone binary and the plugin command.
type Config struct {
	APIKey          string `short:"k" env:"NEW_RELIC_API_KEY" help:"A New Relic user API key."`
	AccountID       int    `short:"i" env:"NEW_RELIC_ACCOUNT_ID" help:"Account ID written to the Terraform provider block."`
	Region          string `default:"US" enum:"US,EU" env:"NEW_RELIC_REGION" help:"The New Relic region of the account."`
	LocatorQuery    string `short:"q" default:"domain = 'SYNTH' AND type = 'MONITOR'" help:"The entity search query used to find monitors to export."`
	OutputDir       string `short:"o" default:"output" help:"Directory receiving monitor.csv and the scripts directory."`
	CreateOutputDir bool   `name:"mkdir" help:"Create the output directory when it does not exist."`
	Workers         uint   `short:"w" default:"10" help:"Number of scripts to fetch in parallel."`
	Terraform       bool   `help:"Also render a Terraform resource for every exported script monitor."`
	LogLevel        string `default:"info" enum:"trace,debug,info,warn,error" env:"LOG_LEVEL" help:"Log level."`
}

// New returns a Config populated with defaults and the API key from the
// environment.
func New() *Config {
	return &Config{
		APIKey:       os.Getenv(APIKeyEnv),
		Region:       "US",
		LocatorQuery: DefaultLocatorQuery,
		OutputDir:    DefaultOutputDir,
		Workers:      DefaultWorkers,
		LogLevel:     "info",
	}
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored. With no
// arguments, ./.env is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	if os.Getenv(APIKeyEnv) == "" {
		if legacy := os.Getenv(legacyAPIKeyEnv); legacy != "" {
			return os.Setenv(APIKeyEnv, legacy)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Workers == 0 {
		return ErrNoWorkers
	}
	if strings.TrimSpace(c.LocatorQuery) == "" {
		c.LocatorQuery = DefaultLocatorQuery
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	return nil
}

func (c *Config) ManifestPath() string {
	return filepath.Join(c.OutputDir, ManifestFile)
}

func (c *Config) ScriptsPath() string {
	return filepath.Join(c.OutputDir, ScriptsDir)
}

func (c *Config) TerraformPath() string {
	return filepath.Join(c.OutputDir, TerraformDir)
}
