package ui

func fillRatio(count, size int) float64 {
	if size <= 0 {
		return 0
	}
	ratio := float64(count) / float64(size)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}
