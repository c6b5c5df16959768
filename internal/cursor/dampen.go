package cursor

// EdgeDampen remaps a normalized coordinate v so that motion inside the
// outer margin m of either edge is deadened. Tracking is least reliable near
// the frame boundary, where the hand is partly out of view.
//
// Inside the margins v is returned unchanged. Below m it becomes
// v*(1-m)/m; above 1-m it becomes m + (v-(1-m))*(1-m)/m. Both boundaries
// map to themselves (0 to 0, 1 to 1) and m == 0 is the identity. The
// mapping is not continuous at v == m and v == 1-m.
func EdgeDampen(v, m float64) float64 {
	switch {
	case m <= 0:
		return v
	case v < m:
		return v * (1 - m) / m
	case v > 1-m:
		return m + (v-(1-m))*(1-m)/m
	default:
		return v
	}
}
