package savings

// Summary describes a series for chart headers.
type Summary struct {
	Min    float64
	Max    float64
	Latest float64
	// Change is Latest minus the first value.
	Change float64
}

// Stats summarises points. An empty series yields the zero Summary.
func Stats(points []Point) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	s := Summary{Min: points[0].Value, Max: points[0].Value}
	for _, p := range points[1:] {
		s.Min = min(s.Min, p.Value)
		s.Max = max(s.Max, p.Value)
	}
	s.Latest = points[len(points)-1].Value
	s.Change = s.Latest - points[0].Value
	return s
}
