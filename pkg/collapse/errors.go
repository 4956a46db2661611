package collapse

import "fmt"

// ShapeMismatchError indicates that the parallel slices of a dataset, a
// weight set or a scaling-function output disagree in length.
// DatasetIndex is -1 when the mismatch is not tied to one dataset.
type ShapeMismatchError struct {
	DatasetIndex int
	Reason       string
}

func (e *ShapeMismatchError) Error() string {
	if e.DatasetIndex < 0 {
		return "shape mismatch: " + e.Reason
	}
	return fmt.Sprintf("shape mismatch in dataset %d: %s", e.DatasetIndex, e.Reason)
}

// DegenerateFitError indicates that the weighted least-squares problem
// has no usable solution: underdetermined (degree >= point count),
// rank-deficient design matrix, or a non-finite fit outcome.
type DegenerateFitError struct {
	Points int
	Degree int
	Reason string
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("degenerate fit (degree %d, %d points): %s", e.Degree, e.Points, e.Reason)
}

// DivisionByZeroError indicates that normalized scoring or error-bar
// rescaling hit an exact zero denominator. DatasetIndex is -1 when the
// zero was found in pooled values rather than one dataset.
type DivisionByZeroError struct {
	Op           string
	DatasetIndex int
	PointIndex   int
}

func (e *DivisionByZeroError) Error() string {
	if e.DatasetIndex < 0 {
		return fmt.Sprintf("%s: zero value at pooled point %d", e.Op, e.PointIndex)
	}
	return fmt.Sprintf("%s: zero value at dataset %d point %d", e.Op, e.DatasetIndex, e.PointIndex)
}

// InvalidRangeError indicates an unusable search range, sample count,
// degree or weight entry.
type InvalidRangeError struct {
	Param  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}
