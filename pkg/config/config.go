package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

// FromFile read and parse config from given path and apply environment on it
func FromFile(filePath string, cfg interface{}) error {
	envMap := make(map[string]string)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		envMap[pair[0]] = pair[1]
	}

	t, err := template.ParseFiles(filePath)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", filePath, err)
	}
	strWriter := &strings.Builder{}
	err = t.Execute(strWriter, envMap)
	if err != nil {
		return fmt.Errorf("apply environment to config %s: %w", filePath, err)
	}

	content := os.ExpandEnv(strWriter.String())
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", filePath, err)
	}
	return nil
}
