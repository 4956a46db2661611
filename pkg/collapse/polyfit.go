package collapse

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polynomial is a fitted polynomial with coefficients in ascending
// order of degree.
type Polynomial struct {
	coeffs []float64
}

// FitPolynomial computes the degree-p polynomial minimizing the
// weighted sum of squares sum_i w_i*(poly(x_i) - y_i)^2. The solve goes
// through a QR factorization of the row-scaled design matrix rather
// than the normal equations, which keeps the fit usable when the degree
// approaches the point count or the x values span many orders of
// magnitude.
func FitPolynomial(x, y, w []float64, degree int) (*Polynomial, error) {
	n := len(x)
	if len(y) != n {
		return nil, &ShapeMismatchError{DatasetIndex: -1, Reason: "pooled x and y lengths differ"}
	}
	if len(w) != n {
		return nil, &ShapeMismatchError{DatasetIndex: -1, Reason: "pooled x and weight lengths differ"}
	}
	if degree < 0 {
		return nil, &InvalidRangeError{Param: "degree", Reason: "must be non-negative"}
	}
	if n <= degree {
		return nil, &DegenerateFitError{Points: n, Degree: degree, Reason: "underdetermined system"}
	}
	for _, wi := range w {
		if wi < 0 {
			return nil, &InvalidRangeError{Param: "weights", Reason: "negative weight"}
		}
	}

	cols := degree + 1
	a := mat.NewDense(n, cols, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		sw := math.Sqrt(w[i])
		pow := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, sw*pow)
			pow *= x[i]
		}
		b.SetVec(i, sw*y[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	// Rank check on the R diagonal before solving; a silent
	// least-norm answer here would poison the residual surface.
	var r mat.Dense
	qr.RTo(&r)
	maxDiag := 0.0
	for j := 0; j < cols; j++ {
		if d := math.Abs(r.At(j, j)); d > maxDiag {
			maxDiag = d
		}
	}
	tol := float64(n) * maxDiag * 1e-14
	for j := 0; j < cols; j++ {
		if math.Abs(r.At(j, j)) <= tol {
			return nil, &DegenerateFitError{Points: n, Degree: degree, Reason: "rank-deficient design matrix"}
		}
	}

	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, b); err != nil {
		return nil, &DegenerateFitError{Points: n, Degree: degree, Reason: "solve failed: " + err.Error()}
	}

	coeffs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coeffs[j] = c.AtVec(j)
		if math.IsNaN(coeffs[j]) || math.IsInf(coeffs[j], 0) {
			return nil, &DegenerateFitError{Points: n, Degree: degree, Reason: "non-finite coefficient"}
		}
	}
	return &Polynomial{coeffs: coeffs}, nil
}

// Coefficients returns a copy of the coefficients, ascending in degree.
func (p *Polynomial) Coefficients() []float64 {
	out := make([]float64, len(p.coeffs))
	copy(out, p.coeffs)
	return out
}

// At evaluates the polynomial at x using Horner's scheme.
func (p *Polynomial) At(x float64) float64 {
	v := 0.0
	for j := len(p.coeffs) - 1; j >= 0; j-- {
		v = v*x + p.coeffs[j]
	}
	return v
}

// Eval evaluates the polynomial at every entry of xs.
func (p *Polynomial) Eval(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.At(x)
	}
	return out
}
