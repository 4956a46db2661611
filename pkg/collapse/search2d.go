package collapse

import "fmt"

// Search2D sweeps two scaling parameters over the Cartesian grid of n1
// v1 values by n2 v2 values, running the same pooled-fit-score pipeline
// as Search1D at every pair. The residual surface is indexed
// [v2 row][v1 column]; the global minimum is found by scanning rows
// outer and columns inner, so exact ties resolve to the lowest v2
// first, then the lowest v1.
func Search2D(data Collection, fns BinaryScaling, v1From, v1To float64, n1 int, v2From, v2To float64, n2, degree int, opts Options) (*Result2D, error) {
	if n1 < 1 {
		return nil, &InvalidRangeError{Param: "n1", Reason: "sample count must be positive"}
	}
	if n2 < 1 {
		return nil, &InvalidRangeError{Param: "n2", Reason: "sample count must be positive"}
	}
	if v1From > v1To && n1 > 1 {
		return nil, &InvalidRangeError{Param: "v1", Reason: "lower bound above upper bound"}
	}
	if v2From > v2To && n2 > 1 {
		return nil, &InvalidRangeError{Param: "v2", Reason: "lower bound above upper bound"}
	}
	if fns.X == nil || fns.Y == nil {
		return nil, &InvalidRangeError{Param: "scaling", Reason: "missing scaling function"}
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	if err := opts.validateWeights(data); err != nil {
		return nil, err
	}
	if v1From == v1To {
		n1 = 1
	}
	if v2From == v2To {
		n2 = 1
	}

	g1 := gridValues(v1From, v1To, n1)
	g2 := gridValues(v2From, v2To, n2)

	// Flattened row-major sweep: k = j*n1 + i with j indexing v2.
	flat, err := sweep(n1*n2, opts.Workers, func(k int) (float64, error) {
		i, j := k%n1, k/n1
		s, err := evalPoint(data, fns.at(g2[j]), &opts, g1[i], degree)
		if err != nil {
			return 0, fmt.Errorf("grid point (%d,%d) (v1=%g, v2=%g): %w", j, i, g1[i], g2[j], err)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	surface := make([][]float64, n2)
	for j := 0; j < n2; j++ {
		surface[j] = flat[j*n1 : (j+1)*n1 : (j+1)*n1]
	}

	best := 0
	for k := 1; k < len(flat); k++ {
		if flat[k] < flat[best] {
			best = k
		}
	}
	bi, bj := best%n1, best/n1

	scaled, err := assemble(data, fns.at(g2[bj]), g1[bi])
	if err != nil {
		return nil, err
	}
	return &Result2D{
		BestV1:      g1[bi],
		BestV2:      g2[bj],
		MinResidual: flat[best],
		V1:          g1,
		V2:          g2,
		Residuals:   surface,
		Scaled:      scaled,
	}, nil
}
