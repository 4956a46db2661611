package config

import (
	"fmt"
	"os"
)

// LoadJob loads and parses a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}
	job, err := ParseJobYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	return job, nil
}

// ValidateJob performs validation on a job specification. It is also
// called on jobs submitted over the HTTP API, where no YAML parsing is
// involved.
func ValidateJob(job *Job) error {
	if job.LogLevel != "" {
		validLogLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLogLevels[job.LogLevel] {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", job.LogLevel)
		}
	}

	if err := validateSearch(&job.Search); err != nil {
		return fmt.Errorf("search validation failed: %w", err)
	}
	if err := validateScaling(&job.Scaling); err != nil {
		return fmt.Errorf("scaling validation failed: %w", err)
	}
	if err := validateDatasets(job); err != nil {
		return fmt.Errorf("datasets validation failed: %w", err)
	}
	return nil
}

func validateSearch(s *Search) error {
	switch s.Mode {
	case ModeOneParam:
		if s.V2 != nil {
			return fmt.Errorf("v2 range given for one_param mode")
		}
	case ModeTwoParam:
		if s.V2 == nil {
			return fmt.Errorf("two_param mode requires a v2 range")
		}
	default:
		return fmt.Errorf("invalid mode: %s (must be one_param or two_param)", s.Mode)
	}

	if err := validateRange("v1", &s.V1); err != nil {
		return err
	}
	if s.V2 != nil {
		if err := validateRange("v2", s.V2); err != nil {
			return err
		}
	}

	if s.Degree < 0 {
		return fmt.Errorf("degree cannot be negative, got %d", s.Degree)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", s.Workers)
	}
	return nil
}

func validateRange(name string, r *Range) error {
	if r.Samples < 1 {
		return fmt.Errorf("%s samples must be positive, got %d", name, r.Samples)
	}
	if r.From > r.To && r.Samples > 1 {
		return fmt.Errorf("%s range is inverted: from %g > to %g", name, r.From, r.To)
	}
	return nil
}

func validateScaling(s *Scaling) error {
	if s.X.Form == "" {
		return fmt.Errorf("x scaling form cannot be empty")
	}
	if s.Y.Form == "" {
		return fmt.Errorf("y scaling form cannot be empty")
	}
	return nil
}

func validateDatasets(job *Job) error {
	if len(job.Datasets) == 0 {
		return fmt.Errorf("at least one dataset must be defined")
	}

	weights := job.Weights
	if weights == "" {
		weights = WeightsUniform
	}
	switch weights {
	case WeightsUniform, WeightsInverseVariance, WeightsExplicit:
	default:
		return fmt.Errorf("invalid weights mode: %s (must be uniform, inverse_variance, or explicit)", weights)
	}

	sizes := make(map[float64]bool)
	for i, d := range job.Datasets {
		if sizes[d.Size] {
			return fmt.Errorf("dataset %d: duplicate size %g", i, d.Size)
		}
		sizes[d.Size] = true

		if len(d.X) == 0 {
			return fmt.Errorf("dataset %d: no points", i)
		}
		if len(d.Y) != len(d.X) {
			return fmt.Errorf("dataset %d: x and y lengths differ (%d vs %d)", i, len(d.X), len(d.Y))
		}
		if len(d.Error) > 0 && len(d.Error) != len(d.X) {
			return fmt.Errorf("dataset %d: x and error lengths differ (%d vs %d)", i, len(d.X), len(d.Error))
		}
		for k, e := range d.Error {
			if e < 0 {
				return fmt.Errorf("dataset %d: negative error at point %d", i, k)
			}
		}

		switch weights {
		case WeightsInverseVariance:
			if len(d.Error) == 0 {
				return fmt.Errorf("dataset %d: inverse_variance weights require error values", i)
			}
			for k, e := range d.Error {
				if e == 0 {
					return fmt.Errorf("dataset %d: inverse_variance weights require non-zero error at point %d", i, k)
				}
			}
		case WeightsExplicit:
			if len(d.Weights) != len(d.X) {
				return fmt.Errorf("dataset %d: explicit weights require one weight per point", i)
			}
			for k, w := range d.Weights {
				if w < 0 {
					return fmt.Errorf("dataset %d: negative weight at point %d", i, k)
				}
			}
		}
	}
	return nil
}
