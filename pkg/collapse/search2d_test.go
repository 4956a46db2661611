package collapse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fss-lab/collapse-core/pkg/collapse"
)

func binaryScaling() collapse.BinaryScaling {
	return collapse.BinaryScaling{
		X: func(x []float64, size, v1, v2 float64) []float64 {
			out := make([]float64, len(x))
			for i, xi := range x {
				out[i] = (xi - v1) * size
			}
			return out
		},
		Y: func(y []float64, size, v1, v2 float64) []float64 {
			out := make([]float64, len(y))
			f := math.Pow(size, -v2)
			for i, yi := range y {
				out[i] = yi * f
			}
			return out
		},
	}
}

func inverseVariance(data collapse.Collection) [][]float64 {
	ws := make([][]float64, len(data))
	for i := range data {
		ws[i] = make([]float64, len(data[i].Err))
		for k, e := range data[i].Err {
			ws[i][k] = 1 / (e * e)
		}
	}
	return ws
}

func TestSearch2DFindsBothParameters(t *testing.T) {
	data := synthCollection(true)

	res, err := collapse.Search2D(data, binaryScaling(), 5, 7, 100, 1, 2, 100, 4, collapse.Options{
		Weights:   inverseVariance(data),
		Normalize: true,
		Workers:   4,
	})
	require.NoError(t, err)

	assert.InDelta(t, synthCritical, res.BestV1, 0.05)
	assert.InDelta(t, synthExponent, res.BestV2, 0.05)

	require.Len(t, res.Residuals, 100)
	bestSeen := false
	for j := range res.Residuals {
		require.Len(t, res.Residuals[j], 100)
		for i, r := range res.Residuals[j] {
			if res.V1[i] == res.BestV1 && res.V2[j] == res.BestV2 {
				assert.Equal(t, res.MinResidual, r)
				bestSeen = true
				continue
			}
			assert.Greater(t, r, res.MinResidual, "surface[%d][%d]", j, i)
		}
	}
	assert.True(t, bestSeen)
}

// Every row of the 2-D surface must reproduce a 1-D sweep with v2
// pinned to that row's grid value.
func TestSearch2DRowsMatchSearch1D(t *testing.T) {
	data := synthCollection(false)
	fns := binaryScaling()

	res2, err := collapse.Search2D(data, fns, 5, 7, 7, 1, 2, 5, 4, collapse.Options{})
	require.NoError(t, err)

	for j, v2 := range res2.V2 {
		fixed := collapse.UnaryScaling{
			X: func(x []float64, size, v1 float64) []float64 { return fns.X(x, size, v1, v2) },
			Y: func(y []float64, size, v1 float64) []float64 { return fns.Y(y, size, v1, v2) },
		}
		res1, err := collapse.Search1D(data, fixed, 5, 7, 7, 4, collapse.Options{})
		require.NoError(t, err)
		assert.Equal(t, res1.Residuals, res2.Residuals[j], "row %d (v2=%g)", j, v2)
	}
}

// Parameter-independent scaling ties every grid point; the flattened
// row-major scan order makes the lowest v2, then lowest v1, win.
// Observed tie-break behavior, not a stated selection guarantee.
func TestSearch2DExactTiesFollowScanOrder(t *testing.T) {
	fns := collapse.BinaryScaling{
		X: func(x []float64, size, v1, v2 float64) []float64 { return x },
		Y: func(y []float64, size, v1, v2 float64) []float64 { return y },
	}
	res, err := collapse.Search2D(synthCollection(false), fns, 5, 7, 5, 1, 2, 4, 2, collapse.Options{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.BestV1)
	assert.Equal(t, 1.0, res.BestV2)
}

func TestSearch2DSinglePointAxes(t *testing.T) {
	res, err := collapse.Search2D(synthCollection(false), binaryScaling(), 6, 6, 10, 1.75, 1.75, 10, 4, collapse.Options{})
	require.NoError(t, err)

	assert.Len(t, res.V1, 1)
	assert.Len(t, res.V2, 1)
	assert.Equal(t, 6.0, res.BestV1)
	assert.Equal(t, 1.75, res.BestV2)
}

func TestSearch2DInvalidInputs(t *testing.T) {
	data := synthCollection(false)
	fns := binaryScaling()
	var invalid *collapse.InvalidRangeError

	_, err := collapse.Search2D(data, fns, 5, 7, 10, 2, 1, 10, 4, collapse.Options{})
	require.ErrorAs(t, err, &invalid)

	_, err = collapse.Search2D(data, fns, 5, 7, 10, 1, 2, 0, 4, collapse.Options{})
	require.ErrorAs(t, err, &invalid)

	_, err = collapse.Search2D(data, collapse.BinaryScaling{}, 5, 7, 10, 1, 2, 10, 4, collapse.Options{})
	require.ErrorAs(t, err, &invalid)
}

func TestSearch2DParallelMatchesSequential(t *testing.T) {
	data := synthCollection(false)
	fns := binaryScaling()

	seq, err := collapse.Search2D(data, fns, 5, 7, 9, 1, 2, 7, 4, collapse.Options{})
	require.NoError(t, err)
	par, err := collapse.Search2D(data, fns, 5, 7, 9, 1, 2, 7, 4, collapse.Options{Workers: 6})
	require.NoError(t, err)

	assert.Equal(t, seq.Residuals, par.Residuals)
	assert.Equal(t, seq.BestV1, par.BestV1)
	assert.Equal(t, seq.BestV2, par.BestV2)
}
