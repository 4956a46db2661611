package collapse

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Refine1D polishes a grid-search result with a bounded Nelder-Mead
// descent started at the winning grid value. The residual surface and
// grid are left untouched; only BestV1, MinResidual and the assembled
// collection move, and only when the descent actually improves on the
// grid minimum. Candidates outside [v1From, v1To] or failing the inner
// pipeline score +Inf, which keeps the simplex inside the searched
// range.
func Refine1D(res *Result, data Collection, fns UnaryScaling, v1From, v1To float64, degree int, opts Options) error {
	f := func(p []float64) float64 {
		if p[0] < v1From || p[0] > v1To {
			return math.Inf(1)
		}
		s, err := evalPoint(data, fns, &opts, p[0], degree)
		if err != nil {
			return math.Inf(1)
		}
		return s
	}
	best, score := refine(f, []float64{res.BestV1}, res.MinResidual)
	if score >= res.MinResidual {
		return nil
	}
	scaled, err := assemble(data, fns, best[0])
	if err != nil {
		return err
	}
	res.BestV1 = best[0]
	res.MinResidual = score
	res.Scaled = scaled
	return nil
}

// Refine2D is the two-parameter counterpart of Refine1D.
func Refine2D(res *Result2D, data Collection, fns BinaryScaling, v1From, v1To, v2From, v2To float64, degree int, opts Options) error {
	f := func(p []float64) float64 {
		if p[0] < v1From || p[0] > v1To || p[1] < v2From || p[1] > v2To {
			return math.Inf(1)
		}
		s, err := evalPoint(data, fns.at(p[1]), &opts, p[0], degree)
		if err != nil {
			return math.Inf(1)
		}
		return s
	}
	best, score := refine(f, []float64{res.BestV1, res.BestV2}, res.MinResidual)
	if score >= res.MinResidual {
		return nil
	}
	scaled, err := assemble(data, fns.at(best[1]), best[0])
	if err != nil {
		return err
	}
	res.BestV1 = best[0]
	res.BestV2 = best[1]
	res.MinResidual = score
	res.Scaled = scaled
	return nil
}

// refine runs Nelder-Mead from x0 and returns the better of the descent
// outcome and the starting point. Optimizer failures fall back to the
// starting point; refinement is a best-effort polish, never a source of
// new failures.
func refine(f func([]float64) float64, x0 []float64, startScore float64) ([]float64, float64) {
	problem := optimize.Problem{Func: f}
	r, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil || r == nil {
		return x0, startScore
	}
	if math.IsNaN(r.F) || math.IsInf(r.F, 0) || r.F >= startScore {
		return x0, startScore
	}
	return r.X, r.F
}
