// Package scalefn resolves named scaling forms from job specifications
// into the function pairs the collapse engine consumes. Jobs arriving
// as YAML or JSON cannot carry closures, so the daemon picks transforms
// from this registry; library callers pass their own functions and
// never touch it.
package scalefn

import (
	"math"

	"github.com/fss-lab/collapse-core/pkg/collapse"
	"github.com/fss-lab/collapse-core/pkg/config"
)

// Form names accepted in job specifications.
const (
	// FormIdentity leaves the axis unscaled.
	FormIdentity = "identity"
	// FormPower multiplies by size^exponent.
	FormPower = "power"
	// FormShiftPower maps v to (v - v1) * size^exponent.
	FormShiftPower = "shift_power"
	// FormShiftPowerV2 maps v to (v - v1) * size^(1/v2). Two-parameter
	// searches only.
	FormShiftPowerV2 = "shift_power_v2"
	// FormPowerV2 multiplies by size^(-v2). Two-parameter searches only.
	FormPowerV2 = "power_v2"
)

// UnknownFormError indicates a scaling form that does not exist or is
// not available in the requested search mode.
type UnknownFormError struct {
	Axis string
	Form string
	Mode string
}

func (e *UnknownFormError) Error() string {
	return "unknown " + e.Axis + " scaling form for " + e.Mode + " search: " + e.Form
}

// Unary resolves a scaling spec for a one-parameter search.
func Unary(s config.Scaling) (collapse.UnaryScaling, error) {
	x, err := unaryAxis("x", s.X)
	if err != nil {
		return collapse.UnaryScaling{}, err
	}
	y, err := unaryAxis("y", s.Y)
	if err != nil {
		return collapse.UnaryScaling{}, err
	}
	return collapse.UnaryScaling{X: x, Y: y}, nil
}

// Binary resolves a scaling spec for a two-parameter search.
func Binary(s config.Scaling) (collapse.BinaryScaling, error) {
	x, err := binaryAxis("x", s.X)
	if err != nil {
		return collapse.BinaryScaling{}, err
	}
	y, err := binaryAxis("y", s.Y)
	if err != nil {
		return collapse.BinaryScaling{}, err
	}
	return collapse.BinaryScaling{X: x, Y: y}, nil
}

func unaryAxis(axis string, spec config.ScaleSpec) (collapse.ScaleFunc, error) {
	switch spec.Form {
	case FormIdentity:
		return func(vals []float64, size, v1 float64) []float64 {
			out := make([]float64, len(vals))
			copy(out, vals)
			return out
		}, nil
	case FormPower:
		a := spec.Exponent
		return func(vals []float64, size, v1 float64) []float64 {
			out := make([]float64, len(vals))
			f := math.Pow(size, a)
			for i, v := range vals {
				out[i] = v * f
			}
			return out
		}, nil
	case FormShiftPower:
		a := spec.Exponent
		return func(vals []float64, size, v1 float64) []float64 {
			out := make([]float64, len(vals))
			f := math.Pow(size, a)
			for i, v := range vals {
				out[i] = (v - v1) * f
			}
			return out
		}, nil
	default:
		return nil, &UnknownFormError{Axis: axis, Form: spec.Form, Mode: config.ModeOneParam}
	}
}

func binaryAxis(axis string, spec config.ScaleSpec) (collapse.ScaleFunc2, error) {
	switch spec.Form {
	case FormIdentity, FormPower, FormShiftPower:
		// Forms without v2 dependence reuse the unary resolution.
		fn, err := unaryAxis(axis, spec)
		if err != nil {
			return nil, err
		}
		return func(vals []float64, size, v1, v2 float64) []float64 {
			return fn(vals, size, v1)
		}, nil
	case FormShiftPowerV2:
		return func(vals []float64, size, v1, v2 float64) []float64 {
			out := make([]float64, len(vals))
			f := math.Pow(size, 1/v2)
			for i, v := range vals {
				out[i] = (v - v1) * f
			}
			return out
		}, nil
	case FormPowerV2:
		return func(vals []float64, size, v1, v2 float64) []float64 {
			out := make([]float64, len(vals))
			f := math.Pow(size, -v2)
			for i, v := range vals {
				out[i] = v * f
			}
			return out
		}, nil
	default:
		return nil, &UnknownFormError{Axis: axis, Form: spec.Form, Mode: config.ModeTwoParam}
	}
}
