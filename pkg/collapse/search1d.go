package collapse

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// gridValues returns n evenly spaced values over [from, to] inclusive
// of both endpoints. n == 1 yields only from.
func gridValues(from, to float64, n int) []float64 {
	if n == 1 {
		return []float64{from}
	}
	return floats.Span(make([]float64, n), from, to)
}

// evalPoint runs the inner pipeline for one candidate parameter value:
// pool the scaled coordinates, fit the weighted polynomial and score it.
func evalPoint(data Collection, fns UnaryScaling, opts *Options, v1 float64, degree int) (float64, error) {
	p, err := pool(data, fns, opts.Weights, v1)
	if err != nil {
		return 0, err
	}
	poly, err := FitPolynomial(p.x, p.y, p.w, degree)
	if err != nil {
		return 0, err
	}
	return Residual(poly.Eval(p.x), p.y, opts.Normalize)
}

// sweep evaluates eval over every index in [0, n) across a bounded
// worker pool, writing each score into its canonical slot. With fewer
// than two workers the sweep is sequential and fails fast; otherwise
// all points are evaluated and the lowest-index error wins, so the
// reported failure does not depend on goroutine scheduling.
func sweep(n, workers int, eval func(k int) (float64, error)) ([]float64, error) {
	scores := make([]float64, n)
	if workers < 2 {
		for k := 0; k < n; k++ {
			s, err := eval(k)
			if err != nil {
				return nil, err
			}
			scores[k] = s
		}
		return scores, nil
	}

	sem := make(chan struct{}, workers)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			scores[k], errs[k] = eval(k)
		}(k)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// Search1D sweeps one scaling parameter over n1 evenly spaced values in
// [v1From, v1To], fitting a degree-p weighted polynomial to the pooled
// scaled points at each value and scoring the fit. It returns the
// residual at every grid value, the minimizing value (exact ties go to
// the lowest v1) and the collection rescaled at that optimum.
//
// Equal bounds degenerate to a single-point evaluation regardless of n1.
func Search1D(data Collection, fns UnaryScaling, v1From, v1To float64, n1, degree int, opts Options) (*Result, error) {
	if n1 < 1 {
		return nil, &InvalidRangeError{Param: "n1", Reason: "sample count must be positive"}
	}
	if v1From > v1To && n1 > 1 {
		return nil, &InvalidRangeError{Param: "v1", Reason: "lower bound above upper bound"}
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

	grid := gridValues(v1From, v1To, n1)
	scores, err := sweep(n1, opts.Workers, func(k int) (float64, error) {
		s, err := evalPoint(data, fns, &opts, grid[k], degree)
		if err != nil {
			return 0, fmt.Errorf("grid point %d (v1=%g): %w", k, grid[k], err)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	best := 0
	for k := 1; k < n1; k++ {
		if scores[k] < scores[best] {
			best = k
		}
	}

	scaled, err := assemble(data, fns, grid[best])
	if err != nil {
		return nil, err
	}
	return &Result{
		BestV1:      grid[best],
		MinResidual: scores[best],
		V1:          grid,
		Residuals:   scores,
		Scaled:      scaled,
	}, nil
}
