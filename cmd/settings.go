package cmd

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	DefaultSettingsFile = ".sitecfg.yaml"
	DefaultConfigPath   = "docs/.vuepress/config.yaml"
	envPrefix           = "SITECFG_"
)

// Settings configures the tool itself, not the site.
type Settings struct {
	Config    string `koanf:"config"`
	DocsDir   string `koanf:"docs_dir"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Addr      string `koanf:"addr"`
	Origin    string `koanf:"origin"`
	Out       string `koanf:"out"`
}

// LoadSettings layers defaults, the settings file, SITECFG_* environment
// variables and explicitly set flags, later layers winning. An explicit
// settingsFile must exist; the default one is optional.
func LoadSettings(settingsFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"config":     DefaultConfigPath,
		"docs_dir":   "docs",
		"log_level":  "info",
		"log_format": "console",
		"addr":       ":9010",
		"origin":     "",
		"out":        "public",
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	path := settingsFile
	if path == "" {
		path = DefaultSettingsFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "reading settings file %s", path)
		}
	} else if settingsFile != "" {
		return nil, errors.Wrapf(err, "settings file %s", settingsFile)
	}

	// SITECFG_DOCS_DIR -> docs_dir
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "settings" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "loading flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}
	return &s, nil
}
