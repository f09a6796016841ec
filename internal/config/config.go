// Package config resolves application settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/common"
	"github.com/Veraticus/price-curator/internal/tokenizer"
)

// Configuration keys.
const (
	KeyDatabasePath = "database.path"
	KeyEncoding     = "tokenizer.encoding"
	KeyWorkers      = "curate.workers"
	KeyCategory     = "curate.category"
	KeyRulesFile    = "curate.rules_file"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/curate/curate.db"

// Settings holds the resolved configuration for one invocation.
type Settings struct {
	DatabasePath string
	Encoding     string
	Category     string
	RulesFile    string
	LogLevel     string
	LogFormat    string
	Workers      int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyEncoding, tokenizer.DefaultEncoding)
	v.SetDefault(KeyWorkers, min(runtime.NumCPU(), 4))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads settings from v, expanding paths and checking ranges.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		Encoding:     v.GetString(KeyEncoding),
		Category:     v.GetString(KeyCategory),
		RulesFile:    ExpandPath(v.GetString(KeyRulesFile)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		Workers:      v.GetInt(KeyWorkers),
	}

	if s.DatabasePath == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if s.Encoding == "" {
		s.Encoding = tokenizer.DefaultEncoding
	}
	if s.Workers < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyWorkers, s.Workers)
	}

	return s, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
