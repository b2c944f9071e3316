package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	pipeerrors "github.com/sumeromer/10xgenomics-dataset-scraper/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a configuration file from disk, validates it, and returns
// the resulting model.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pipeerrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault parses the configuration at path, falling back to the
// built-in default pipeline when the file does not exist. Any other read or
// validation failure is returned as-is.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := ParseConfig(path)
	if err == nil {
		return cfg, nil
	}

	var parseErr *pipeerrors.ParseError
	if errors.As(err, &parseErr) && errors.Is(parseErr.Unwrap(), fs.ErrNotExist) {
		return Default(), nil
	}

	return nil, err
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
