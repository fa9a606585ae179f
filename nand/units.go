package nand

import "math"

// DisplayPlaces is the number of decimal places used when statistics are printed.
const DisplayPlaces = 6

const bytesPerMiB = 1 << 20

// BytesToMiB converts a byte count to mebibytes.
func BytesToMiB(bytes int64) float64 {
	return float64(bytes) / bytesPerMiB
}

// PagesToMiB converts a page count of the given page size to mebibytes.
func PagesToMiB(pages, pageSize int64) float64 {
	return BytesToMiB(pages * pageSize)
}

// Quantize rounds v half away from zero to the given number of decimal places.
// NaN and infinities are returned unchanged.
func Quantize(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// IsUndefined reports whether a derived statistic had a zero denominator.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// ratio divides num by den, returning NaN when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
