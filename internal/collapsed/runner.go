package collapsed

import (
	"fmt"

	"github.com/fss-lab/collapse-core/internal/scalefn"
	"github.com/fss-lab/collapse-core/pkg/collapse"
	"github.com/fss-lab/collapse-core/pkg/config"
)

// DatasetResult is one lattice's collapsed data, ready for plotting.
type DatasetResult struct {
	Size  float64   `json:"size"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Error []float64 `json:"error,omitempty"`
}

// Outcome is the serialized result of a finished search. Residuals is
// set for one-parameter searches, Surface (indexed [v2][v1]) for
// two-parameter searches.
type Outcome struct {
	Mode        string          `json:"mode"`
	BestV1      float64         `json:"best_v1"`
	BestV2      *float64        `json:"best_v2,omitempty"`
	MinResidual float64         `json:"min_residual"`
	V1          []float64       `json:"v1"`
	V2          []float64       `json:"v2,omitempty"`
	Residuals   []float64       `json:"residuals,omitempty"`
	Surface     [][]float64     `json:"surface,omitempty"`
	ScaledData  []DatasetResult `json:"scaled_data"`
}

// RunJob executes a validated job specification synchronously and
// returns its outcome. It is the single bridge between job specs and
// the engine: dataset marshaling, weight derivation, scaling-form
// resolution and the optional refinement step all happen here.
func RunJob(job *config.Job) (*Outcome, error) {
	data := buildCollection(job)
	opts := collapse.Options{
		Weights:   buildWeights(job),
		Normalize: job.Search.Normalize,
		Workers:   job.Search.Workers,
	}
	s := &job.Search

	switch s.Mode {
	case config.ModeOneParam:
		fns, err := scalefn.Unary(job.Scaling)
		if err != nil {
			return nil, err
		}
		res, err := collapse.Search1D(data, fns, s.V1.From, s.V1.To, s.V1.Samples, s.Degree, opts)
		if err != nil {
			return nil, err
		}
		if s.Refine {
			if err := collapse.Refine1D(res, data, fns, s.V1.From, s.V1.To, s.Degree, opts); err != nil {
				return nil, err
			}
		}
		return &Outcome{
			Mode:        s.Mode,
			BestV1:      res.BestV1,
			MinResidual: res.MinResidual,
			V1:          res.V1,
			Residuals:   res.Residuals,
			ScaledData:  scaledResults(res.Scaled),
		}, nil

	case config.ModeTwoParam:
		fns, err := scalefn.Binary(job.Scaling)
		if err != nil {
			return nil, err
		}
		res, err := collapse.Search2D(data, fns,
			s.V1.From, s.V1.To, s.V1.Samples,
			s.V2.From, s.V2.To, s.V2.Samples,
			s.Degree, opts)
		if err != nil {
			return nil, err
		}
		if s.Refine {
			if err := collapse.Refine2D(res, data, fns, s.V1.From, s.V1.To, s.V2.From, s.V2.To, s.Degree, opts); err != nil {
				return nil, err
			}
		}
		best2 := res.BestV2
		return &Outcome{
			Mode:        s.Mode,
			BestV1:      res.BestV1,
			BestV2:      &best2,
			MinResidual: res.MinResidual,
			V1:          res.V1,
			V2:          res.V2,
			Surface:     res.Residuals,
			ScaledData:  scaledResults(res.Scaled),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported search mode: %s", s.Mode)
	}
}

func buildCollection(job *config.Job) collapse.Collection {
	data := make(collapse.Collection, len(job.Datasets))
	for i, d := range job.Datasets {
		data[i] = collapse.Dataset{Size: d.Size, X: d.X, Y: d.Y, Err: d.Error}
	}
	return data
}

// buildWeights derives the engine weight set from the job's weight
// mode; nil means uniform. Validation has already ensured the error
// and weight arrays needed here exist and are usable.
func buildWeights(job *config.Job) [][]float64 {
	switch job.Weights {
	case config.WeightsInverseVariance:
		ws := make([][]float64, len(job.Datasets))
		for i, d := range job.Datasets {
			ws[i] = make([]float64, len(d.Error))
			for k, e := range d.Error {
				ws[i][k] = 1 / (e * e)
			}
		}
		return ws
	case config.WeightsExplicit:
		ws := make([][]float64, len(job.Datasets))
		for i, d := range job.Datasets {
			ws[i] = d.Weights
		}
		return ws
	default:
		return nil
	}
}

func scaledResults(scaled collapse.Collection) []DatasetResult {
	out := make([]DatasetResult, len(scaled))
	for i := range scaled {
		out[i] = DatasetResult{
			Size:  scaled[i].Size,
			X:     scaled[i].X,
			Y:     scaled[i].Y,
			Error: scaled[i].Err,
		}
	}
	return out
}
