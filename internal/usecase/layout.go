package usecase

// Proportions converts relative width ratios into percentages of the full
// line width. The result has one entry per ratio and sums to 100 (within
// float tolerance). A nil or empty input yields an empty slice; a single
// ratio takes the full width.
func Proportions(ratios []int) []float64 {
	if len(ratios) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratios {
		sum += r
	}
	out := make([]float64, len(ratios))
	if sum == 0 {
		// degenerate input: spread evenly so the grid stays intact
		for i := range out {
			out[i] = 100.0 / float64(len(ratios))
		}
		return out
	}
	for i, r := range ratios {
		out[i] = float64(r) / float64(sum) * 100.0
	}
	return out
}
