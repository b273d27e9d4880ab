package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LinqLover/git-backup/internal/errors"
)

const (
	// DefaultBranchPrefix is prepended to the current branch name when no
	// backup branch name is supplied on the command line
	DefaultBranchPrefix = "backup/"

	// DefaultCommitterName is the fixed committer identity that marks
	// backup commits as distinct from user commits
	DefaultCommitterName = "o1"

	// DefaultCommitterEmail pairs with DefaultCommitterName on backup commits
	DefaultCommitterEmail = "o1"
)

// Config holds all git-backup application settings.
//
// The struct is constructed once at startup and threaded through every
// stage as an explicit parameter; no stage reads process-wide state on
// its own.
type Config struct {
	// Repository configuration
	RepoPath   string
	BranchName string // explicit backup branch name; empty means derive from current branch
	Push       bool

	// Committer identity stamped on backup commits
	CommitterName  string
	CommitterEmail string

	// User experience
	Verbose bool

	// Debugging
	Debug   bool
	LogFile string

	// Special flags
	Version bool

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// FileConfig is the subset of settings that may be provided through the
// optional TOML config file at $XDG_CONFIG_HOME/git-backup/config.toml.
type FileConfig struct {
	Push           *bool  `toml:"push"`
	BranchName     string `toml:"branch_name"`
	CommitterName  string `toml:"committer_name"`
	CommitterEmail string `toml:"committer_email"`
	Verbose        *bool  `toml:"verbose"`
	Debug          *bool  `toml:"debug"`
	LogFile        string `toml:"log_file"`
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		RepoPath:       "",
		BranchName:     "",
		Push:           false,
		CommitterName:  DefaultCommitterName,
		CommitterEmail: DefaultCommitterEmail,
		Verbose:        true,
		Debug:          false,
		LogFile:        "",
		Version:        false,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// DefaultConfigFile returns the path of the optional TOML config file,
// following the XDG Base Directory Specification.
func DefaultConfigFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "git-backup", "config.toml")
}

// LoadFromFile applies settings from the TOML config file at path.
// A missing file is not an error; any other read or parse failure is.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewConfigError("configFile", path,
			errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}
	defer func() {
		_ = f.Close()
	}()

	return c.loadFromReader(f, path)
}

func (c *Config) loadFromReader(r io.Reader, path string) error {
	var fc FileConfig
	if _, err := toml.NewDecoder(r).Decode(&fc); err != nil {
		return errors.NewConfigError("configFile", path,
			errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to decode config file: %v", err)))
	}

	if fc.Push != nil {
		c.Push = *fc.Push
	}
	if fc.BranchName != "" {
		c.BranchName = fc.BranchName
	}
	if fc.CommitterName != "" {
		c.CommitterName = fc.CommitterName
	}
	if fc.CommitterEmail != "" {
		c.CommitterEmail = fc.CommitterEmail
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}

	return nil
}

// LoadFromEnvironment updates config from environment variables
func (c *Config) LoadFromEnvironment() {
	c.RepoPath = getEnvString("GIT_BACKUP_REPO_PATH", c.RepoPath)
	c.BranchName = getEnvString("GIT_BACKUP_BRANCH_NAME", c.BranchName)
	c.Push = getEnvBool("GIT_BACKUP_PUSH", c.Push)
	c.Verbose = getEnvBool("GIT_BACKUP_VERBOSE", c.Verbose)
	c.Debug = getEnvBool("GIT_BACKUP_DEBUG", c.Debug)
	c.LogFile = getEnvString("GIT_BACKUP_LOG_FILE", c.LogFile)
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return errors.NewConfigError("repoPath", "", errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return errors.NewConfigError("repoPath", c.RepoPath, errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.RepoPath = absRepoPath

	if c.CommitterName == "" {
		return errors.NewConfigError("committerName", "", errors.Wrap(errors.ErrInvalidConfiguration, "committer name must not be empty"))
	}

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			// Default XDG data home if not set
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				// Fallback to the temp directory if home dir can't be determined
				logDir = os.TempDir()
			}
		}

		// Create a unique identifier for the repository
		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])

		// Final log directory and file
		backupLogDir := filepath.Join(logDir, "git-backup", "logs")
		c.LogFile = filepath.Join(backupLogDir, fmt.Sprintf("git-backup-%s.log", repoHash))
	}

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
