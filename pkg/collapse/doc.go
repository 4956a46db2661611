// Package collapse implements finite-size-scaling data collapse by
// exhaustive grid search over one or two scaling parameters.
//
// For every candidate parameter value the raw data of each lattice size
// is pushed through caller-supplied scaling functions, the scaled
// points of all lattices are pooled, a weighted least-squares
// polynomial of fixed degree is fitted to the pool, and the fit's
// residual is recorded. The parameter value minimizing the residual is
// reported together with the fully rescaled dataset at that optimum.
//
// Main entry points:
//   - Search1D: sweep one parameter over an evenly spaced range
//   - Search2D: sweep two parameters over a Cartesian grid
//   - Refine1D / Refine2D: optional Nelder-Mead polish of a sweep result
//
// Usage:
//
//	fns := collapse.UnaryScaling{
//	    X: func(x []float64, size, v1 float64) []float64 { ... },
//	    Y: func(y []float64, size, v1 float64) []float64 { ... },
//	}
//	res, err := collapse.Search1D(data, fns, 5, 7, 100, 4, collapse.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.BestV1, res.MinResidual)
//
// The sweep is a bounded, pure computation: no I/O, no shared state
// between invocations, and deterministic results regardless of the
// worker count.
package collapse
