package lint

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/sift/internal/rule"
	tt "github.com/gnolang/sift/internal/types"
	"github.com/gnolang/sift/scanner"
)

const DefaultConfigFile = ".sift.yaml"

// Environment variables overriding the configuration.
const (
	EnvConfig     = "SIFT_CONFIG"
	EnvRules      = "SIFT_RULES"
	EnvExtensions = "SIFT_EXTENSIONS"
)

// Config represents the overall configuration: which files to lint and the
// rules to run on them, in order.
type Config struct {
	Name        string            `yaml:"name"`
	Extensions  []string          `yaml:"extensions,omitempty"`
	IgnorePaths []string          `yaml:"ignore-paths,omitempty"`
	Rules       []rule.Definition `yaml:"rules"`
}

// DefaultConfig is the configuration written by `sift init`.
func DefaultConfig() Config {
	return Config{
		Name:       "sift",
		Extensions: append([]string(nil), scanner.DefaultExtensions...),
		Rules: []rule.Definition{
			{AppliedTo: "Source", Type: "MaxCharactersPerLine", Parameter: "120"},
			{AppliedTo: "Function", Type: "CurlyBracketsOpenSameLine"},
			{AppliedTo: "Conditional", Type: "AlwaysHaveCurlyBrackets"},
			{AppliedTo: "Class", Type: "StartWithUpperCase"},
			{AppliedTo: "ClassVariable", Type: "StartWithX", Parameter: "m_", Severity: tt.SeverityWarning},
			{AppliedTo: "Source", Type: "NoConstCast"},
			{AppliedTo: "GlobalDefine", Type: "NoMacroFunctions", Severity: tt.SeverityWarning},
		},
	}
}

// LoadConfig reads a YAML configuration. A missing file is not an error
// when the path was not given explicitly: the defaults apply.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
	}

	config, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return config, nil
}

func parseConfig(data []byte) (Config, error) {
	var config Config
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	return config, nil
}

// LoadRules reads a rules file. Both the configuration layout and a JSON
// document of the form {"rules": [{"appliedTo": ..., "type": ...}]} are
// accepted since YAML is a superset of JSON.
func LoadRules(path string) ([]rule.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules %s: %w", path, err)
	}
	config, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing rules %s: %w", path, err)
	}
	return config.Rules, nil
}

// LoadEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// Resolve loads the configuration the way the command line does: flags
// win over environment variables, which win over the config file.
func Resolve(configPath, rulesPath string) (Config, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	if rulesPath == "" {
		rulesPath = os.Getenv(EnvRules)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return Config{}, err
	}

	if rulesPath != "" {
		rules, err := LoadRules(rulesPath)
		if err != nil {
			return Config{}, err
		}
		config.Rules = rules
	}

	if exts := os.Getenv(EnvExtensions); exts != "" {
		config.Extensions = splitList(exts)
	}
	if len(config.Extensions) == 0 {
		config.Extensions = append([]string(nil), scanner.DefaultExtensions...)
	}
	return config, nil
}

// WriteConfig writes config as YAML to path.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// splitList splits a list separated by commas or by '|' as in the
// rules-file extension syntax ("cpp|hpp|h").
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
