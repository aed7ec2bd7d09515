package util

import "math"

// RoundPercent returns round(100 * part / total) as an integer percentage.
// A zero total yields 0.
func RoundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
