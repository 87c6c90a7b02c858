package utils

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// MetresFromMillimetres converts a length given in millimetres.
func MetresFromMillimetres(mm float64) float64 {
	return mm / 1e3
}

// MillimetresFromMetres converts a length given in metres.
func MillimetresFromMetres(m float64) float64 {
	return m * 1e3
}
