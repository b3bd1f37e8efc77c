package history

// AgeAtLinear returns the smallest age whose timestamp is at or before t.
// Timestamps must increase with every push. It scans backwards from the
// newest entry.
func AgeAtLinear(ts *Ring[float64], t float64) (int, bool) {
	for age := 0; age < ts.Len(); age++ {
		if v, _ := ts.At(age); v <= t {
			return age, true
		}
	}
	return 0, false
}

// AgeAtDoubling returns the same age as AgeAtLinear in O(log n) probes.
//
// Timestamps decrease with age, so "timestamp > t" holds for a prefix of
// ages. The search finds the last age of that prefix by adding strides of
// decreasing powers of two, starting from the largest one below Len; the
// answer is the age after it.
func AgeAtDoubling(ts *Ring[float64], t float64) (int, bool) {
	n := ts.Len()
	if n == 0 {
		return 0, false
	}
	if v, _ := ts.At(0); v <= t {
		return 0, true
	}

	// invariant: ts[last] > t
	last := 0
	stride := 1
	for stride*2 < n {
		stride *= 2
	}
	for ; stride > 0; stride /= 2 {
		probe := last + stride
		if probe >= n {
			continue
		}
		if v, _ := ts.At(probe); v > t {
			last = probe
		}
	}

	if last+1 >= n {
		return 0, false
	}
	return last + 1, true
}
