// Package config loads the reduction run's configuration surface, the way
// cmd/cfg.go and cmd/root.go wire viper + pflag for their own config file
// and flags, and the way gooze-dev-gooze's cmd package wires
// cobra+viper+pflag together for a full CLI tool.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file init scaffolds and Load's caller
// points viper at, mirroring ".tlin.yaml" default.
const DefaultFileName = ".reduce.yaml"

// Config is the recognized configuration surface.
// VerifyFn is deliberately absent here: it is a predicate over oracle
// output and is only ever set through the library API, never loaded from
// a file or flag.
type Config struct {
	ExtraArgs          []string          `mapstructure:"extra_args" yaml:"extra_args,omitempty"`
	Subcommand         string            `mapstructure:"subcommand" yaml:"subcommand"`
	SubcommandLints    string            `mapstructure:"subcommand_lints" yaml:"subcommand_lints,omitempty"`
	Env                map[string]string `mapstructure:"env" yaml:"env,omitempty"`
	ProjectDir         string            `mapstructure:"project_dir" yaml:"project_dir"`
	DirectCompilerMode bool              `mapstructure:"direct_compiler_mode" yaml:"direct_compiler_mode,omitempty"`
	NoVerify           bool              `mapstructure:"no_verify" yaml:"no_verify,omitempty"`
	ScriptPath         string            `mapstructure:"script_path" yaml:"script_path,omitempty"`
	ScriptPathLints    string            `mapstructure:"script_path_lints" yaml:"script_path_lints,omitempty"`
}

// EffectiveSubcommandLints returns SubcommandLints, defaulting to
// Subcommand when unset.
func (c *Config) EffectiveSubcommandLints() string {
	if c.SubcommandLints != "" {
		return c.SubcommandLints
	}
	return c.Subcommand
}

// EffectiveScriptPathLints returns ScriptPathLints, defaulting to
// ScriptPath when unset. DESIGN.md records the choice made here for
// the open question this default resolves.
func (c *Config) EffectiveScriptPathLints() string {
	if c.ScriptPathLints != "" {
		return c.ScriptPathLints
	}
	return c.ScriptPath
}

// BindFlags registers the pflag surface cmd/reduce exposes, mirroring
// cmd/fix.go's flag-binding style.
func BindFlags(flags *pflag.FlagSet) {
	flags.StringSlice("extra-args", nil, "extra arguments forwarded to the oracle")
	flags.String("subcommand", "build", "oracle action to invoke")
	flags.String("subcommand-lints", "", "overrides the lint-collection oracle action (defaults to subcommand)")
	flags.StringToString("env", nil, "environment variables added to the oracle's environment")
	flags.String("project-dir", ".", "working directory for oracle invocations")
	flags.Bool("direct-compiler-mode", false, "direct-compiler mode setting; loaded into the config, but reduce run does not act on it")
	flags.Bool("no-verify", false, "suppress the oracle; every probe is treated as reproduces=yes")
	flags.String("script-path", "", "user script invoked by the oracle")
	flags.String("script-path-lints", "", "overrides the lint-collection script (defaults to script-path)")
}

// Load builds a Config from a viper instance that has already had a
// config file merged in (if any) and flags bound via BindPFlag, matching
// cmd/root.go initialization order: flags override file
// values because viper.BindPFlag takes precedence over file-sourced keys.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Subcommand == "" {
		cfg.Subcommand = "build"
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	return cfg, nil
}

// EnvSlice renders Env as "KEY=VALUE" pairs suitable for exec.Cmd.Env.
func (c *Config) EnvSlice() []string {
	out := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		out = append(out, k+"="+v)
	}
	return out
}

// Scaffold writes a default Config to path as YAML, mirroring cmd/init.go
// writing a fresh .tlin.yaml. It does not check whether path already
// exists; reduce init always overwrites.
func Scaffold(path string) error {
	if path == "" {
		path = DefaultFileName
	}
	cfg := Config{
		Subcommand: "build",
		ProjectDir: ".",
	}
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal default: %w", err)
	}
	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
