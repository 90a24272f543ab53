package model

import (
	"math"
	"strconv"
)

// DefaultMaxUploadBytes is the largest image accepted for upload fields.
const DefaultMaxUploadBytes int64 = 5 << 20

// SizeLabel formats n bytes the way upload hints print limits, e.g. "5MB".
func SizeLabel(n int64) string {
	switch {
	case n >= 1<<20:
		return trimmed(float64(n)/(1<<20)) + "MB"
	case n >= 1<<10:
		return trimmed(float64(n)/(1<<10)) + "KB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}

func trimmed(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}
