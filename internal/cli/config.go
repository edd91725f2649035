package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/render"
)

// Config holds the settings shared by the export and interactive paths.
// Command-line flags take precedence over the config file.
type Config struct {
	Namespace string `toml:"namespace"` // snapshot file; empty means halcmd
	Halcmd    string `toml:"halcmd"`
	Engine    string `toml:"engine"`
	Dot       string `toml:"dot"`
	LogFile   string `toml:"log_file"`
}

func defaultConfig() Config {
	return Config{Engine: render.EngineExec}
}

// configPath returns the config file location using the XDG standard
// (~/.config/halgraph/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields the defaults; a missing explicit file is an
// error.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if cfg.Engine == "" {
		cfg.Engine = render.EngineExec
	}
	return cfg, nil
}

// flagValues holds the raw command-line flags before they are merged into a
// Config.
type flagValues struct {
	config    string
	namespace string
	halcmd    string
	engine    string
	dot       string
	logFile   string
}

// apply overrides cfg with every flag set on the command line.
func (f flagValues) apply(cmd *cobra.Command, cfg *Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("namespace", &cfg.Namespace, f.namespace)
	set("halcmd", &cfg.Halcmd, f.halcmd)
	set("engine", &cfg.Engine, f.engine)
	set("dot", &cfg.Dot, f.dot)
	set("log-file", &cfg.LogFile, f.logFile)
}
