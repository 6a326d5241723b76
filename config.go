// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package rxv

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	defaultArchiveTodayEndpoint    = "https://archive.today"
	defaultInternetArchiveEndpoint = "https://web.archive.org"
	defaultTimeout                 = 120 * time.Second
	defaultUserAgent               = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// Hosts that already belong to an archival service. Submitting them
// again only archives an archive, so the CLI filters them out.
var defaultExcludedDomains = []string{
	"archive.is",
	"archive.org",
	"archive.ph",
	"archive.today",
	"web.archive.org",
}

// Config carries the knobs shared by the adapters and the CLI.
type Config struct {
	ArchiveTodayEndpoint    string        `mapstructure:"archivetoday_endpoint"`
	InternetArchiveEndpoint string        `mapstructure:"internetarchive_endpoint"`
	Timeout                 time.Duration `mapstructure:"timeout"`
	UserAgent               string        `mapstructure:"user_agent"`
	ExcludedDomains         []string      `mapstructure:"excluded_domains"`
}

// LoadConfig resolves configuration from defaults and RXV_* environment
// variables, e.g. RXV_TIMEOUT=30s or RXV_ARCHIVETODAY_ENDPOINT=https://archive.ph.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("archivetoday_endpoint", defaultArchiveTodayEndpoint)
	v.SetDefault("internetarchive_endpoint", defaultInternetArchiveEndpoint)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("excluded_domains", defaultExcludedDomains)

	v.SetEnvPrefix("RXV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, `unmarshal config failed`)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ArchiveTodayEndpoint:    defaultArchiveTodayEndpoint,
		InternetArchiveEndpoint: defaultInternetArchiveEndpoint,
		Timeout:                 defaultTimeout,
		UserAgent:               defaultUserAgent,
		ExcludedDomains:         defaultExcludedDomains,
	}
}

// Excluded reports whether host belongs to one of the excluded domains.
func (c *Config) Excluded(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range c.ExcludedDomains {
		if host == domain {
			return true
		}
	}
	return false
}
