package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsclarity/mbs-clarity/internal/extract"
	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func writeVocab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadVocabularyExtends(t *testing.T) {
	path := writeVocab(t, `
locations:
  - Mobile Unit
  - hospital
providers:
  - paramedic
`)
	vf, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.False(t, vf.Replace)

	base := extract.DefaultVocabulary()
	v := vf.Apply(base)
	assert.Len(t, v.Locations, len(base.Locations)+1)
	assert.Equal(t, "mobile unit", v.Locations[len(v.Locations)-1])
	assert.Equal(t, "paramedic", v.Providers[len(v.Providers)-1])
}

func TestLoadVocabularyReplace(t *testing.T) {
	path := writeVocab(t, `
replace: true
locations: [mobile unit]
`)
	vf, err := LoadVocabulary(path)
	require.NoError(t, err)

	base := extract.DefaultVocabulary()
	v := vf.Apply(base)
	assert.Equal(t, []string{"mobile unit"}, v.Locations)
	assert.Equal(t, base.Providers, v.Providers)
}

func TestLoadVocabularyErrors(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadVocabulary(writeVocab(t, "locations: [unclosed"))
	assert.Error(t, err)
}

func TestSettingsLibrary(t *testing.T) {
	lib, err := Settings{}.Library()
	require.NoError(t, err)
	assert.Same(t, extract.Default(), lib)

	path := writeVocab(t, "replace: true\nlocations: [mobile unit]\n")
	lib, err = Settings{VocabPath: path}.Library()
	require.NoError(t, err)

	cs := lib.Constraints(model.Record{ItemNum: "1", Description: "in a mobile unit or hospital"})
	var locs []string
	for _, c := range cs {
		if c.Kind == model.Location {
			locs = append(locs, c.Value)
		}
	}
	assert.Equal(t, []string{"mobile unit"}, locs)
}

func TestSettingsFromViper(t *testing.T) {
	t.Setenv("MBS_CLARITY_LOG_LEVEL", "debug")

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyDB, "/tmp/x.db")

	s := FromViper(v)
	assert.Equal(t, "/tmp/x.db", s.DBPath)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Empty(t, s.VocabPath)
}

func TestDefaultDBPath(t *testing.T) {
	assert.Equal(t, "mbs.db", filepath.Base(DefaultDBPath()))
}
