package configparser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and loads variables into the environment.
// Nested keys are joined with "_" and upper-cased: database.host -> DATABASE_HOST.
// Variables that are already set are left untouched.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	vars, err := FlattenYaml(data)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, vars[key]); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

// FlattenYaml converts a YAML document into env-style KEY=value pairs.
func FlattenYaml(data []byte) (map[string]string, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	out := make(map[string]string)
	flatten(nil, root, out)
	return out, nil
}

func flatten(prefix []string, node map[string]any, out map[string]string) {
	for key, value := range node {
		path := append(append([]string{}, prefix...), key)

		switch v := value.(type) {
		case map[string]any:
			flatten(path, v, out)
		case nil:
			// "key:" with no value does not represent a variable
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, expandEnv(fmt.Sprint(item)))
			}
			out[envName(path)] = strings.Join(items, ",")
		default:
			out[envName(path)] = expandEnv(fmt.Sprint(v))
		}
	}
}

func envName(path []string) string {
	return strings.ToUpper(strings.Join(path, "_"))
}

// expandEnv handles the ${VAR:-default} substitution syntax.
func expandEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, hasDefault := strings.Cut(inner, ":-")
	name = strings.TrimSpace(name)

	if envValue := os.Getenv(name); envValue != "" {
		return envValue
	}
	if hasDefault {
		return strings.TrimSpace(def)
	}
	return ""
}
