package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseJobYAML parses a Job from YAML bytes and validates it.
// This is used for APIs where the job is provided as payload (not via filesystem).
func ParseJobYAML(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job yaml: %w", err)
	}

	if err := ValidateJob(&job); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	return &job, nil
}

// ParseJobYAMLString parses a Job from a YAML string and validates it.
func ParseJobYAMLString(yamlText string) (*Job, error) {
	return ParseJobYAML([]byte(yamlText))
}
