package collapse

// Dataset holds the raw samples measured on one lattice size.
// X, Y and (when present) Err are parallel slices; Err carries the
// per-point uncertainties supplied by the caller.
type Dataset struct {
	Size float64
	X    []float64
	Y    []float64
	Err  []float64
}

// HasErr reports whether the dataset carries per-point uncertainties.
func (d *Dataset) HasErr() bool {
	return len(d.Err) > 0
}

// Collection is an ordered set of datasets, one per lattice size.
// The order is preserved end-to-end and fixes the pooling order during
// the fit at every grid point.
type Collection []Dataset

// validate checks the shape invariants: parallel slices per dataset,
// at least one point per dataset, and unique sizes across the collection.
func (c Collection) validate() error {
	if len(c) == 0 {
		return &ShapeMismatchError{DatasetIndex: -1, Reason: "empty collection"}
	}
	seen := make(map[float64]bool, len(c))
	for i := range c {
		d := &c[i]
		if len(d.X) == 0 {
			return &ShapeMismatchError{DatasetIndex: i, Reason: "dataset has no points"}
		}
		if len(d.Y) != len(d.X) {
			return &ShapeMismatchError{DatasetIndex: i, Reason: "x and y lengths differ"}
		}
		if d.HasErr() && len(d.Err) != len(d.X) {
			return &ShapeMismatchError{DatasetIndex: i, Reason: "x and error lengths differ"}
		}
		if seen[d.Size] {
			return &ShapeMismatchError{DatasetIndex: i, Reason: "duplicate lattice size"}
		}
		seen[d.Size] = true
	}
	return nil
}

// points returns the total point count across the collection.
func (c Collection) points() int {
	n := 0
	for i := range c {
		n += len(c[i].X)
	}
	return n
}

// Options configures a search invocation. The zero value means uniform
// weights, plain sum-of-squares residuals and sequential evaluation.
type Options struct {
	// Weights carries one slice per dataset, parallel to that dataset's
	// points. Nil means uniform weight 1 for every point.
	Weights [][]float64
	// Normalize divides each squared residual term by the local scaled
	// vertical value. Use it when the vertical scaling depends strongly
	// on the searched parameter(s).
	Normalize bool
	// Workers bounds the number of grid points evaluated concurrently.
	// Values below 2 evaluate the grid sequentially.
	Workers int
}

// validateWeights checks the weight set against the collection shape.
func (o *Options) validateWeights(data Collection) error {
	if o.Weights == nil {
		return nil
	}
	if len(o.Weights) != len(data) {
		return &ShapeMismatchError{DatasetIndex: -1, Reason: "weight set and collection lengths differ"}
	}
	for i, w := range o.Weights {
		if len(w) != len(data[i].X) {
			return &ShapeMismatchError{DatasetIndex: i, Reason: "weights and x lengths differ"}
		}
		for _, wi := range w {
			if wi < 0 {
				return &InvalidRangeError{Param: "weights", Reason: "negative weight"}
			}
		}
	}
	return nil
}

// Result is the outcome of a one-parameter search.
type Result struct {
	// BestV1 is the grid value (or refined value, see Refine1D)
	// minimizing the residual.
	BestV1 float64
	// MinResidual is the residual at BestV1.
	MinResidual float64
	// V1 holds the sampled grid values, Residuals the residual at each,
	// index-aligned.
	V1        []float64
	Residuals []float64
	// Scaled is the collection transformed at BestV1, with error bars
	// rescaled by the local scaled-to-raw vertical ratio.
	Scaled Collection
}

// Result2D is the outcome of a two-parameter search. Residuals is
// indexed [v2 row][v1 column], so each row is a curve over v1 at
// fixed v2.
type Result2D struct {
	BestV1      float64
	BestV2      float64
	MinResidual float64
	V1          []float64
	V2          []float64
	Residuals   [][]float64
	Scaled      Collection
}
