package ppg

// Detrend removes the linear trend from a window by ordinary least
// squares over sample index. The output has the same length and index
// correspondence as the input.
func Detrend(window []float64) ([]float64, error) {
	n := len(window)
	if n < 2 {
		return nil, NewInvalidInputError("detrend", "need at least 2 samples for a linear fit")
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range window {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := sumY/fn - slope*sumX/fn

	out := make([]float64, n)
	for i, y := range window {
		out[i] = y - (intercept + slope*float64(i))
	}
	return out, nil
}
