package collapse

// ScaleFunc maps one dataset's values to their scaled counterparts for
// a one-parameter search. It must be element-wise over vals, pure and
// deterministic; it is called with the same signature at every grid
// point.
type ScaleFunc func(vals []float64, size, v1 float64) []float64

// ScaleFunc2 is the two-parameter form of ScaleFunc.
type ScaleFunc2 func(vals []float64, size, v1, v2 float64) []float64

// UnaryScaling pairs the horizontal and vertical scaling functions for
// a one-parameter search.
type UnaryScaling struct {
	X ScaleFunc
	Y ScaleFunc
}

// BinaryScaling pairs the horizontal and vertical scaling functions for
// a two-parameter search.
type BinaryScaling struct {
	X ScaleFunc2
	Y ScaleFunc2
}

// at fixes both parameters, reducing a BinaryScaling to the unary shape
// used by the shared pooling and assembly paths.
func (b BinaryScaling) at(v2 float64) UnaryScaling {
	return UnaryScaling{
		X: func(vals []float64, size, v1 float64) []float64 { return b.X(vals, size, v1, v2) },
		Y: func(vals []float64, size, v1 float64) []float64 { return b.Y(vals, size, v1, v2) },
	}
}

// pooled holds the concatenated scaled coordinates and weights for one
// grid point, in collection order.
type pooled struct {
	x []float64
	y []float64
	w []float64
}

// pool applies the scaling functions at v1 to every dataset and
// concatenates the results in collection order. Weights default to
// uniform 1 when ws is nil.
func pool(data Collection, fns UnaryScaling, ws [][]float64, v1 float64) (*pooled, error) {
	n := data.points()
	p := &pooled{
		x: make([]float64, 0, n),
		y: make([]float64, 0, n),
		w: make([]float64, 0, n),
	}
	for i := range data {
		d := &data[i]
		sx := fns.X(d.X, d.Size, v1)
		sy := fns.Y(d.Y, d.Size, v1)
		if len(sx) != len(d.X) {
			return nil, &ShapeMismatchError{DatasetIndex: i, Reason: "x scaling changed the point count"}
		}
		if len(sy) != len(d.Y) {
			return nil, &ShapeMismatchError{DatasetIndex: i, Reason: "y scaling changed the point count"}
		}
		p.x = append(p.x, sx...)
		p.y = append(p.y, sy...)
		if ws == nil {
			for range d.X {
				p.w = append(p.w, 1)
			}
		} else {
			p.w = append(p.w, ws[i]...)
		}
	}
	return p, nil
}
