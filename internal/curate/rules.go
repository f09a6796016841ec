package curate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyRules is returned when a rules file lists no removals.
	ErrEmptyRules = errors.New("rules file has no detail removals")
	// ErrEmptyRemoval is returned for a blank entry, which would otherwise
	// match between every character.
	ErrEmptyRemoval = errors.New("detail removal cannot be empty")
)

// RulesFile is the on-disk form of the tunable scrub rules.
//
//	detail_removals:
//	  - '"Batteries Included?": "No"'
//	  - By Manufacturer
type RulesFile struct {
	DetailRemovals []string `yaml:"detail_removals"`
}

// LoadRules reads a YAML rules file and returns its detail removals in file order.
func LoadRules(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules.
func ParseRules(data []byte) ([]string, error) {
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if len(rf.DetailRemovals) == 0 {
		return nil, ErrEmptyRules
	}
	for i, r := range rf.DetailRemovals {
		if r == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyRemoval, i)
		}
	}
	return rf.DetailRemovals, nil
}
