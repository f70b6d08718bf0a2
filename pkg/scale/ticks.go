package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec returns the integer bounds and the increment of a "nice" tick run.
// A negative increment means the ticks are (i / -inc), which avoids float drift for small steps.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && count == 1 {
		return tickSpec(start, stop, count*2)
	}

	return i1, i2, inc
}

// niceTicks returns roughly count evenly spaced round values in [start, stop]
func niceTicks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, count)
	if !(i2 >= i1) {
		return nil
	}

	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}

	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}

	return ticks
}

// tickStep returns the signed distance between two adjacent nice ticks
func tickStep(start, stop float64, count int) float64 {
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	_, _, inc := tickSpec(start, stop, count)
	step := inc
	if inc < 0 {
		step = 1 / -inc
	}

	if reverse {
		return -step
	}
	return step
}
