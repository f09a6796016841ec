package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/price-curator/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CURATE_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/curate.db", filepath.Join(home, "curate.db")},
		{"$CURATE_TEST_DIR/curate.db", "/data/curate.db"},
		{"/abs/curate.db", "/abs/curate.db"},
		{"~other/x", "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.local/share/curate/curate.db", s.DatabasePath)
	assert.Equal(t, "cl100k_base", s.Encoding)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.GreaterOrEqual(t, s.Workers, 1)
	assert.Empty(t, s.RulesFile)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyDatabasePath, "/tmp/x.db")
	v.Set(KeyWorkers, 8)
	v.Set(KeyCategory, "Appliances")
	v.Set(KeyRulesFile, "/etc/curate/rules.yaml")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", s.DatabasePath)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, "Appliances", s.Category)
	assert.Equal(t, "/etc/curate/rules.yaml", s.RulesFile)
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyWorkers, 0)

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	v = viper.New()
	v.Set(KeyWorkers, 2)
	_, err = Load(v)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
