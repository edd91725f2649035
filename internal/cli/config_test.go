package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/halgraph/pkg/errors"
)

func TestConfigPath(t *testing.T) {
	t.Run("XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got, err := configPath()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/custom/config", appName, "config.toml"); got != want {
			t.Errorf("configPath() = %q, want %q", got, want)
		}
	})

	t.Run("XDG_CONFIG_HOME unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("cannot determine home directory")
		}
		got, err := configPath()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, ".config", appName, "config.toml"); got != want {
			t.Errorf("configPath() = %q, want %q", got, want)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	t.Run("missing default file", func(t *testing.T) {
		cfg, err := loadConfig("", false)
		if err != nil {
			t.Fatal(err)
		}
		if cfg != defaultConfig() {
			t.Errorf("loadConfig() = %+v, want defaults", cfg)
		}
	})

	t.Run("default location", func(t *testing.T) {
		path := filepath.Join(dir, appName, "config.toml")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		content := "engine = \"builtin\"\nhalcmd = \"/opt/linuxcnc/bin/halcmd\"\nlog_file = \"/tmp/halgraph.log\"\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(path)

		cfg, err := loadConfig("", false)
		if err != nil {
			t.Fatal(err)
		}
		want := Config{Engine: "builtin", Halcmd: "/opt/linuxcnc/bin/halcmd", LogFile: "/tmp/halgraph.log"}
		if cfg != want {
			t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("engine defaults when omitted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.toml")
		if err := os.WriteFile(path, []byte("namespace = \"hal.toml\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(path, true)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Engine != "exec" || cfg.Namespace != "hal.toml" {
			t.Errorf("loadConfig() = %+v", cfg)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), true)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("loadConfig() error = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("engine = [\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(path, true)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("loadConfig() error = %v, want INVALID_CONFIG", err)
		}
	})
}

func TestFlagsOverrideConfig(t *testing.T) {
	c, _ := testCLI(t)
	cmd := c.RootCommand()
	if err := cmd.ParseFlags([]string{"--engine", "builtin", "--dot", "/usr/bin/dot"}); err != nil {
		t.Fatal(err)
	}

	f := flagValues{engine: "builtin", dot: "/usr/bin/dot", halcmd: "ignored"}
	cfg := Config{Engine: "exec", Halcmd: "/opt/halcmd", Namespace: "hal.toml"}
	f.apply(cmd, &cfg)

	want := Config{Engine: "builtin", Dot: "/usr/bin/dot", Halcmd: "/opt/halcmd", Namespace: "hal.toml"}
	if cfg != want {
		t.Errorf("apply() = %+v, want %+v", cfg, want)
	}
}
