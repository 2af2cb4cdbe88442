package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

const (
	DefaultProfile      = "default"
	CredentialsFileName = ".fmpcfg"
	apiKeyField         = "api_key"
)

// CredentialRegistry lists the named API key profiles of a credentials file.
type CredentialRegistry interface {
	GetProfiles() ([]string, error)
	GetAPIKey(profile string) (string, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewCredentialRegistry(path string) (CredentialRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

// OpenCredentials loads the credentials file at path, falling back to
// ~/.fmpcfg when path is empty. A missing file yields a nil registry.
func OpenCredentials(path string) (CredentialRegistry, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(home, CredentialsFileName)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return NewCredentialRegistry(path)
}

func (r *iniRegistry) GetProfiles() ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if section.HasKey(apiKeyField) {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetAPIKey(profile string) (string, error) {
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		return "", fmt.Errorf("profile %s: %w", profile, fmp.ErrCredentialNotFound)
	}

	key := strings.TrimSpace(section.Key(apiKeyField).String())
	if key == "" {
		return "", fmt.Errorf("profile %s has no %s: %w", profile, apiKeyField, fmp.ErrCredentialNotFound)
	}
	return key, nil
}
