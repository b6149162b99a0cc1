// Package config loads the user-level configuration twig reads at
// startup: the Jira parser mode/host/credentials from <config>/twig/jira.toml,
// overridable by the JIRA_HOST/JIRA_API_TOKEN/JIRA_USERNAME environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	twigerrors "github.com/eddieland/twig/internal/errors"
	"github.com/eddieland/twig/internal/jira"
)

// JiraConfig is the parsed shape of jira.toml.
type JiraConfig struct {
	Mode     string `toml:"mode"`
	Host     string `toml:"host"`
	Username string `toml:"username"`
	APIToken string `toml:"api_token"`
}

// Path returns <config>/twig/jira.toml.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}
	return filepath.Join(configDir, "twig", "jira.toml"), nil
}

// LoadJiraConfig reads jira.toml if present, then applies the JIRA_HOST
// environment variable override. A missing file yields flexible-mode
// defaults. A present-but-unparseable file is a Configuration error.
func LoadJiraConfig() (jira.Config, error) {
	cfg := jira.DefaultConfig()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var onDisk JiraConfig
		if _, err := toml.Decode(string(data), &onDisk); err != nil {
			return cfg, twigerrors.Wrap(twigerrors.KindConfiguration, err,
				"fix or remove "+path)
		}
		if strings.EqualFold(onDisk.Mode, "strict") {
			cfg.Mode = jira.ModeStrict
		}
		if onDisk.Host != "" {
			cfg.Host = NormalizeJiraHost(onDisk.Host)
		}
		cfg.Username = onDisk.Username
		cfg.APIToken = onDisk.APIToken
	} else if !os.IsNotExist(err) {
		return cfg, twigerrors.Wrap(twigerrors.KindFileSystem, err)
	}

	if envHost := os.Getenv("JIRA_HOST"); envHost != "" {
		cfg.Host = NormalizeJiraHost(envHost)
	}
	if envToken := os.Getenv("JIRA_API_TOKEN"); envToken != "" {
		cfg.APIToken = envToken
	}
	if envUser := os.Getenv("JIRA_USERNAME"); envUser != "" {
		cfg.Username = envUser
	}

	return cfg, nil
}

// NormalizeJiraHost prefixes a bare hostname with "https://" so callers
// can build issue URLs without special-casing scheme-less input.
func NormalizeJiraHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimSuffix(host, "/")
	}
	return "https://" + strings.TrimSuffix(host, "/")
}
