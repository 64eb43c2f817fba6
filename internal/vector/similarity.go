package vector

// SquaredL2 returns the squared Euclidean distance between two vectors of the
// same length.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// SimilarityFromDistance converts a squared L2 distance to a presentation
// similarity in (0, 1], monotonically decreasing in distance.
func SimilarityFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
