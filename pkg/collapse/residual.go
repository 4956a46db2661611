package collapse

import "math"

// Residual computes the badness-of-fit score between the fitted curve
// evaluations and the actual pooled values. With normalize=false it is
// the plain sum of squared differences; with normalize=true each term
// is divided by the local actual value first, which keeps scores
// comparable across grid points when the vertical scale itself depends
// on the searched parameter(s).
func Residual(fitted, actual []float64, normalize bool) (float64, error) {
	if len(fitted) != len(actual) {
		return 0, &ShapeMismatchError{DatasetIndex: -1, Reason: "fitted and actual lengths differ"}
	}
	sum := 0.0
	for i := range fitted {
		d := fitted[i] - actual[i]
		if normalize {
			if actual[i] == 0 {
				return 0, &DivisionByZeroError{Op: "normalized residual", DatasetIndex: -1, PointIndex: i}
			}
			d /= actual[i]
		}
		sum += d * d
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, &DegenerateFitError{Points: len(actual), Reason: "non-finite residual"}
	}
	return sum, nil
}
