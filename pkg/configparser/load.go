package configparser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// ${VAR:-default}
var substitution = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*):-(.*)\}$`)

// LoadYamlFile reads a YAML file and loads variables into the environment.
// Nested keys are joined with "_" and upper-cased: database.host -> DATABASE_HOST.
// Variables that are already set in the environment are never overwritten.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten("", root, vars)

	for key, value := range vars {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			// empty values do not represent environment variables
		default:
			out[key] = expand(fmt.Sprint(val))
		}
	}
}

// expand resolves the ${VAR:-default} syntax against the current environment.
func expand(value string) string {
	m := substitution.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return value
	}
	if env := os.Getenv(m[1]); env != "" {
		return env
	}
	return strings.TrimSpace(m[2])
}

// LoadAndParseYaml loads the optional YAML file into the environment and fills cfg from it.
// A missing path is not an error: configuration then comes from env and defaults only.
func LoadAndParseYaml(filepath string, cfg any) error {
	if filepath != "" {
		if _, err := os.Stat(filepath); err == nil {
			if err := LoadYamlFile(filepath); err != nil {
				return err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not stat YAML file: %w", err)
		}
	}

	return ParseEnv(cfg)
}
