package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is the config file used when no path is given on the command line.
const DefaultPath = "config.json"

// Keys recognized in the config file.
const (
	KeyClientSecretPaths      = "client_secret_json_paths"
	KeyOutputFolderPath       = "output_folder_path"
	KeyScopes                 = "scopes"
	KeyOutputTokenName        = "output_token_json_name"
	KeyOutputClientSecretName = "output_client_secret_json_name"
)

// CommentMarker marks keys that only carry annotations for human readers.
const CommentMarker = "__comments__"

// Defaults applied when a key is missing or falsy.
var (
	DefaultClientSecretPaths      = StringList{"credentials.json", "client_secret*.json"}
	DefaultOutputFolderPath       = "switch/sx/"
	DefaultScopes                 = StringList{"https://www.googleapis.com/auth/drive.readonly"}
	DefaultOutputTokenName        = "gdrive.token"
	DefaultOutputClientSecretName = "credentials.json"
)

// Config is the resolved configuration for a single run.
// All fields are computed once in New and never change afterwards.
type Config struct {
	ClientSecretSearchPatterns StringList
	OutputFolderPath           string
	Scopes                     StringList
	OutputTokenName            string
	OutputClientSecretName     string
}

// New builds a Config from a raw mapping, falling back to the defaults for
// every key that is absent or falsy. A truthy value of the wrong type is an error.
func New(values map[string]any) (*Config, error) {
	var errs []error

	patterns, err := listField(values, KeyClientSecretPaths, DefaultClientSecretPaths)
	errs = append(errs, err)
	folder, err := stringField(values, KeyOutputFolderPath, DefaultOutputFolderPath)
	errs = append(errs, err)
	scopes, err := listField(values, KeyScopes, DefaultScopes)
	errs = append(errs, err)
	tokenName, err := stringField(values, KeyOutputTokenName, DefaultOutputTokenName)
	errs = append(errs, err)
	secretName, err := stringField(values, KeyOutputClientSecretName, DefaultOutputClientSecretName)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Config{
		ClientSecretSearchPatterns: patterns,
		OutputFolderPath:           folder,
		Scopes:                     scopes,
		OutputTokenName:            tokenName,
		OutputClientSecretName:     secretName,
	}, nil
}

// Defaults returns a Config holding only default values.
func Defaults() *Config {
	cfg, _ := New(nil)
	return cfg
}

// Load reads the config file at path. A missing file is reported with an
// error matching fs.ErrNotExist; Load never creates the file itself.
func Load(path string) (*Config, error) {
	values, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := New(values)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// CreateWithDefaults writes a config file holding every key with its default
// value and returns the matching Config.
func CreateWithDefaults(path string) (*Config, error) {
	cfg := Defaults()
	if err := writeFile(path, cfg.ToMap()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrCreate loads the config at path, creating it with defaults when it
// does not exist yet. The boolean reports whether a new file was written.
func LoadOrCreate(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	cfg, err = CreateWithDefaults(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// ToMap returns the resolved fields keyed by their config file names.
func (c *Config) ToMap() map[string]any {
	return map[string]any{
		KeyClientSecretPaths:      c.ClientSecretSearchPatterns,
		KeyOutputFolderPath:       c.OutputFolderPath,
		KeyScopes:                 c.Scopes,
		KeyOutputTokenName:        c.OutputTokenName,
		KeyOutputClientSecretName: c.OutputClientSecretName,
	}
}

// OutputFolder returns the directory receiving the generated files.
func (c *Config) OutputFolder() string {
	return filepath.Clean(c.OutputFolderPath)
}

// TokenPath returns the path of the generated token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.OutputFolderPath, c.OutputTokenName)
}

// ClientSecretDestPath returns where the client secret file is copied to.
func (c *Config) ClientSecretDestPath() string {
	return filepath.Join(c.OutputFolderPath, c.OutputClientSecretName)
}

// DirMaker creates a directory and any missing parents.
type DirMaker interface {
	MkdirAll(path string) error
}

type osDirMaker struct{}

func (osDirMaker) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", path, err)
	}
	return nil
}

// EnsureOutputFolder creates the output folder and its parents through dirs,
// or directly on disk when dirs is nil. It is a no-op for an existing folder.
func (c *Config) EnsureOutputFolder(dirs DirMaker) error {
	if dirs == nil {
		dirs = osDirMaker{}
	}
	return dirs.MkdirAll(c.OutputFolder())
}

// ClientSecretSource finds the client secret file using the configured search patterns.
func (c *Config) ClientSecretSource() (string, error) {
	return FindClientSecret(c.ClientSecretSearchPatterns)
}
