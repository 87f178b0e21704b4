package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const configName = "prover.toml"

// proverConfig is prover.toml. Every key is optional; flags win.
type proverConfig struct {
	Log     logConfig     `toml:"log"`
	Trace   traceConfig   `toml:"trace"`
	Session sessionConfig `toml:"session"`

	path string
}

type logConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type traceConfig struct {
	Level     string   `toml:"level"`
	Mode      string   `toml:"mode"`
	Output    string   `toml:"output"`
	Format    string   `toml:"format"`
	RingSize  int      `toml:"ring_size"`
	Heartbeat duration `toml:"heartbeat"`
}

type sessionConfig struct {
	MaxSteps  int      `toml:"max_steps"`
	Jobs      int      `toml:"jobs"`
	Snapshots string   `toml:"snapshots"`
	Scripts   []string `toml:"scripts"`
}

// duration reads "500ms"-style strings.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "duration %q", text)
	}
	d.Duration = v
	return nil
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, configName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "failed to stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfigFile(path string) (proverConfig, error) {
	var cfg proverConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return proverConfig{}, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return proverConfig{}, errors.Newf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("session", "jobs") && cfg.Session.Jobs < 0 {
		return proverConfig{}, errors.Newf("%s: [session].jobs must not be negative", path)
	}
	// относительные пути считаются от каталога конфига
	root := filepath.Dir(path)
	if cfg.Session.Snapshots != "" && !filepath.IsAbs(cfg.Session.Snapshots) {
		cfg.Session.Snapshots = filepath.Join(root, cfg.Session.Snapshots)
	}
	for i, s := range cfg.Session.Scripts {
		if !filepath.IsAbs(s) {
			cfg.Session.Scripts[i] = filepath.Join(root, s)
		}
	}
	if o := cfg.Trace.Output; o != "" && o != "-" && !filepath.IsAbs(o) {
		cfg.Trace.Output = filepath.Join(root, o)
	}
	cfg.path = path
	return cfg, nil
}

// loadConfig reads --config or the nearest prover.toml; no file yields the
// zero config.
func loadConfig(cmd *cobra.Command) (proverConfig, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil || !ok {
			return proverConfig{}, err
		}
		path = found
	}
	return loadConfigFile(path)
}

// applyFlags overrides file values with explicitly set flags.
func (c *proverConfig) applyFlags(cmd *cobra.Command) {
	pf := cmd.Root().PersistentFlags()
	str := func(name string, dst *string) {
		if pf.Changed(name) {
			*dst, _ = pf.GetString(name)
		}
	}
	str("log-level", &c.Log.Level)
	str("trace", &c.Trace.Output)
	str("trace-level", &c.Trace.Level)
	str("trace-mode", &c.Trace.Mode)
	str("trace-format", &c.Trace.Format)
	if pf.Changed("log-json") {
		c.Log.JSON, _ = pf.GetBool("log-json")
	}
	if pf.Changed("trace-heartbeat") {
		c.Trace.Heartbeat.Duration, _ = pf.GetDuration("trace-heartbeat")
	}
	// --trace без уровня включает шаги
	if c.Trace.Output != "" && c.Trace.Level == "" {
		c.Trace.Level = "step"
	}
}
