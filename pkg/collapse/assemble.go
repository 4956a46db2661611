package collapse

// assemble re-applies the scaling functions at the winning parameter(s)
// to every dataset, producing the final collapsed collection. Error
// bars are rescaled by the local scaled-to-raw vertical ratio,
// err_i * scaledY_i / rawY_i. That treats the vertical scaling as a
// local multiplicative rescaling of each point; it is an approximation
// for scaling functions that are non-linear in y, and an exact zero raw
// value is refused rather than propagated.
func assemble(data Collection, fns UnaryScaling, v1 float64) (Collection, error) {
	out := make(Collection, len(data))
	for i := range data {
		d := &data[i]
		sx := fns.X(d.X, d.Size, v1)
		sy := fns.Y(d.Y, d.Size, v1)
		if len(sx) != len(d.X) || len(sy) != len(d.Y) {
			return nil, &ShapeMismatchError{DatasetIndex: i, Reason: "scaling changed the point count"}
		}
		out[i] = Dataset{Size: d.Size, X: sx, Y: sy}
		if !d.HasErr() {
			continue
		}
		se := make([]float64, len(d.Err))
		for k, e := range d.Err {
			if d.Y[k] == 0 {
				return nil, &DivisionByZeroError{Op: "error rescaling", DatasetIndex: i, PointIndex: k}
			}
			se[k] = e * sy[k] / d.Y[k]
		}
		out[i].Err = se
	}
	return out, nil
}
