// Package config holds runtime settings and the vocabulary override loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mbsclarity/mbs-clarity/internal/extract"
)

// EnvPrefix is the prefix for environment overrides, e.g. MBS_CLARITY_DB.
const EnvPrefix = "MBS_CLARITY"

// Setting keys shared by flags, env and the config file.
const (
	KeyDB        = "db"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyVocab     = "vocab"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	DBPath    string
	LogLevel  string
	LogFormat string
	VocabPath string
}

// DefaultDBPath returns ~/.mbs-clarity/mbs.db, or a relative path when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mbs-clarity", "mbs.db")
	}
	return filepath.Join(home, ".mbs-clarity", "mbs.db")
}

// SetDefaults registers default values and env binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, DefaultDBPath())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyVocab, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// FromViper reads Settings out of v.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		DBPath:    v.GetString(KeyDB),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		VocabPath: v.GetString(KeyVocab),
	}
}

// VocabularyFile is a YAML override for the built-in phrase lists.
type VocabularyFile struct {
	Locations []string `yaml:"locations"`
	Providers []string `yaml:"providers"`
	Replace   bool     `yaml:"replace"`
}

// LoadVocabulary loads a vocabulary override from a YAML file.
func LoadVocabulary(path string) (*VocabularyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var vf VocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return &vf, nil
}

// Apply merges the override into base. Phrases are lowercased and trimmed;
// blanks and phrases already present are skipped. With Replace set the
// override lists stand alone, but an empty list keeps the base list.
func (vf *VocabularyFile) Apply(base extract.Vocabulary) extract.Vocabulary {
	return extract.Vocabulary{
		Locations: merge(base.Locations, vf.Locations, vf.Replace),
		Providers: merge(base.Providers, vf.Providers, vf.Replace),
	}
}

func merge(base, extra []string, replace bool) []string {
	var out []string
	if !replace || len(extra) == 0 {
		out = append(out, base...)
	}
	seen := make(map[string]bool, len(out)+len(extra))
	for _, p := range out {
		seen[p] = true
	}
	for _, p := range extra {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Library builds the pattern library for s, applying the vocabulary
// override when one is configured.
func (s Settings) Library() (*extract.Library, error) {
	if s.VocabPath == "" {
		return extract.Default(), nil
	}
	vf, err := LoadVocabulary(s.VocabPath)
	if err != nil {
		return nil, err
	}
	return extract.NewLibrary(vf.Apply(extract.DefaultVocabulary())), nil
}
