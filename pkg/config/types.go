package config

// Search modes.
const (
	ModeOneParam = "one_param"
	ModeTwoParam = "two_param"
)

// Weight modes.
const (
	WeightsUniform         = "uniform"
	WeightsInverseVariance = "inverse_variance"
	WeightsExplicit        = "explicit"
)

// Job describes one collapse search: the raw datasets, the scaling
// forms, the parameter grid and the fit settings. Jobs arrive either as
// YAML files (one-shot runs) or as JSON payloads on the HTTP API.
type Job struct {
	LogLevel string        `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Search   Search        `yaml:"search" json:"search"`
	Scaling  Scaling       `yaml:"scaling" json:"scaling"`
	Weights  string        `yaml:"weights,omitempty" json:"weights,omitempty"`
	Datasets []DatasetSpec `yaml:"datasets" json:"datasets"`
}

// Search holds the sweep settings.
type Search struct {
	Mode      string `yaml:"mode" json:"mode"` // one_param or two_param
	V1        Range  `yaml:"v1" json:"v1"`
	V2        *Range `yaml:"v2,omitempty" json:"v2,omitempty"`
	Degree    int    `yaml:"degree" json:"degree"`
	Normalize bool   `yaml:"normalize,omitempty" json:"normalize,omitempty"`
	Workers   int    `yaml:"workers,omitempty" json:"workers,omitempty"`
	Refine    bool   `yaml:"refine,omitempty" json:"refine,omitempty"`
}

// Range describes one parameter axis: samples evenly spaced values over
// [from, to], both endpoints included.
type Range struct {
	From    float64 `yaml:"from" json:"from"`
	To      float64 `yaml:"to" json:"to"`
	Samples int     `yaml:"samples" json:"samples"`
}

// Scaling names the scaling form applied to each axis.
type Scaling struct {
	X ScaleSpec `yaml:"x" json:"x"`
	Y ScaleSpec `yaml:"y" json:"y"`
}

// ScaleSpec selects a named scaling form. Exponent is the fixed
// exponent used by forms that take one; forms deriving their exponent
// from a searched parameter ignore it.
type ScaleSpec struct {
	Form     string  `yaml:"form" json:"form"`
	Exponent float64 `yaml:"exponent,omitempty" json:"exponent,omitempty"`
}

// DatasetSpec carries one lattice's raw samples. Error and Weights are
// optional; Weights is only consulted in explicit weight mode.
type DatasetSpec struct {
	Size    float64   `yaml:"size" json:"size"`
	X       []float64 `yaml:"x" json:"x"`
	Y       []float64 `yaml:"y" json:"y"`
	Error   []float64 `yaml:"error,omitempty" json:"error,omitempty"`
	Weights []float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
}
