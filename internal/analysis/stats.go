package analysis

import "math"

// dailyReturns computes simple returns r[i] = (v[i]-v[i-1]) / v[i-1].
// The result has length len(values)-1 and is empty for fewer than 2 values.
func dailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}
	return returns
}

// sampleStdDev computes the Bessel-corrected (n-1) standard deviation.
// A sequence shorter than 2 has zero measured dispersion, not an error.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance)
}

// normalize rebases a series to 100 at its first element.
func normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	base := values[0]
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / base * 100
	}
	return out
}

// drawdownSeries computes the running drawdown from the running peak as
// percentages (<= 0, exactly 0 at new highs) and the most negative value.
func drawdownSeries(values []float64) ([]float64, float64) {
	if len(values) == 0 {
		return nil, 0
	}

	out := make([]float64, len(values))
	peak := values[0]
	maxDrawdown := 0.0

	for i, v := range values {
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak * 100
		out[i] = dd
		if dd < maxDrawdown {
			maxDrawdown = dd
		}
	}

	return out, maxDrawdown
}

// trailingExtremes computes max and min over the last min(n, window) values.
func trailingExtremes(values []float64, window int) (high, low float64) {
	if len(values) == 0 {
		return 0, 0
	}

	start := 0
	if window > 0 && len(values) > window {
		start = len(values) - window
	}

	high = values[start]
	low = values[start]
	for _, v := range values[start:] {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low
}
